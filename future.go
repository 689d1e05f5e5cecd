package async

import (
	"github.com/google/uuid"

	"github.com/nilcoro/async/internal/runtime"
)

// FutureState is a future's lifecycle state.
type FutureState = runtime.FutureState

const (
	FutureNew      = runtime.FutureNew
	FuturePending  = runtime.FuturePending
	FutureResolved = runtime.FutureResolved
	FutureRejected = runtime.FutureRejected
)

// FreeFunc is an optional destructor invoked on a future's value when the
// future is destroyed, provided the value was never taken out.
type FreeFunc = runtime.FreeFunc

// FutureOptions configure future construction.
type FutureOptions = runtime.FutureOptions

// ErrFutureDestroyedPending documents the condition under which Destroy
// logs and no-ops rather than freeing a future's value.
var ErrFutureDestroyedPending = runtime.ErrFutureDestroyedPending

// Future is a single-assignment result cell with a wait-list of blocked
// coroutines.
type Future struct {
	inner *runtime.Future
}

// CreateBareFuture creates a future in NEW with no backing coroutine,
// intended to be resolved by a worker goroutine launched through Dispatch.
func CreateBareFuture(sched *Scheduler, opts FutureOptions) *Future {
	return &Future{inner: runtime.CreateBareFuture(sched.inner, opts)}
}

// CreateFutureFromFunction allocates a wrapper coroutine whose body runs
// fn(arg), stores the result into the future, and resolves it.
func CreateFutureFromFunction(sched *Scheduler, fn Func, arg any, opts FutureOptions) *Future {
	return &Future{inner: runtime.CreateFutureFromFunction(sched.inner, wrapFunc(fn), arg, opts)}
}

// ID returns the future's unique identifier, mainly useful for logging.
func (f *Future) ID() uuid.UUID { return f.inner.ID }

// Start enqueues the future's backing coroutine, if any, and flips state to
// PENDING. Idempotent.
func (f *Future) Start() error { return f.inner.Start() }

// AddWaiting appends waiting to the future's wait-list, unless the future
// is already terminal, in which case it reports that directly instead of
// parking waiting on a wait-list that will never be walked again.
func (f *Future) AddWaiting(waiting *Coroutine) (alreadyDone bool) {
	return f.inner.AddWaiting(waiting.inner)
}

// State returns the future's current lifecycle state.
func (f *Future) State() FutureState { return f.inner.State() }

// BorrowReturnValue returns the value without transferring ownership.
func (f *Future) BorrowReturnValue() any { return f.inner.BorrowReturnValue() }

// TakeReturnValue transfers ownership of the value out of the future.
// Succeeds at most once; subsequent calls return (nil, false).
func (f *Future) TakeReturnValue() (any, bool) { return f.inner.TakeReturnValue() }

// GetFreeFunc exposes the stored destructor.
func (f *Future) GetFreeFunc() FreeFunc { return f.inner.GetFreeFunc() }

// Resolve flips a PENDING future to RESOLVED, stores result and its
// destructor, and notifies waiters. A no-op on a future that is not
// PENDING.
func (f *Future) Resolve(result any, free FreeFunc) { f.inner.Resolve(result, free) }

// Reject flips a PENDING future to REJECTED and notifies waiters. A no-op
// on a future that is not PENDING.
func (f *Future) Reject() { f.inner.Reject() }

// Destroy is illegal while PENDING (logged, no-op). Otherwise runs the
// stored destructor on the value, unless it was taken.
func (f *Future) Destroy() { f.inner.Destroy() }

// AllResult is the array produced by the All combinator.
type AllResult = runtime.AllResult

// All returns a new coroutine-backed future whose body awaits each input
// future in sequence and collects their values into an AllResult. If take
// is set, each input future's value is taken and the input future is
// destroyed once collected, so the combined result can outlive the inputs.
func All(sched *Scheduler, futures []*Future, take bool) *Future {
	inner := make([]*runtime.Future, len(futures))
	for i, f := range futures {
		inner[i] = f.inner
	}
	return &Future{inner: runtime.All(sched.inner, inner, take)}
}

// FreeAllResult runs each element's recorded destructor over its value.
func FreeAllResult(r *AllResult) { runtime.FreeAllResult(r) }
