package runtime

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FutureState is a future's lifecycle state.
type FutureState int

const (
	// FutureNew is a future that has not started producing its value.
	FutureNew FutureState = iota
	// FuturePending is a future whose producer is running.
	FuturePending
	// FutureResolved is a future holding a successfully produced value.
	FutureResolved
	// FutureRejected is a future whose producer signalled failure.
	FutureRejected
)

func (s FutureState) String() string {
	switch s {
	case FutureNew:
		return "new"
	case FuturePending:
		return "pending"
	case FutureResolved:
		return "resolved"
	case FutureRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// FreeFunc is an optional destructor invoked on a future's value when the
// future is destroyed, provided the value was never taken out.
type FreeFunc func(any)

// FutureOptions configure future construction.
type FutureOptions struct {
	// Eager enqueues a function-backed future's wrapper coroutine
	// immediately, rather than lazily on first await. Illegal on
	// CreateBareFuture (warned, not an error, matching the original's
	// forgiving future_create()).
	Eager bool
	// Threaded mutex-protects all mutable fields; required when a worker
	// goroutine (not a coroutine on the scheduler goroutine) will resolve
	// the future.
	Threaded bool
}

// Future is a single-assignment result cell with a wait-list of blocked
// coroutines.
type Future struct {
	ID uuid.UUID

	sched *Scheduler
	coro  *Coroutine

	mu    *sync.Mutex // nil unless Threaded
	state FutureState

	value    any
	freeFunc FreeFunc
	taken    bool

	waiters []*Coroutine

	logger *zap.Logger
}

// ErrFutureDestroyedPending is the error a programmer would get if Destroy
// were allowed to report failure on a PENDING future; the library instead
// logs and no-ops, but the sentinel is exposed for tests and
// for callers that want to assert the condition themselves.
var ErrFutureDestroyedPending = errors.New("goasync: future destroyed while pending")

// CreateBareFuture creates a future in NEW with no backing coroutine,
// intended to be resolved by a worker goroutine (future_create).
func CreateBareFuture(sched *Scheduler, opts FutureOptions) *Future {
	if opts.Eager {
		sched.logger.Warn("a future created with CreateBareFuture cannot be eager")
	}
	f := &Future{
		ID:     uuid.New(),
		sched:  sched,
		state:  FutureNew,
		logger: sched.logger,
	}
	if opts.Threaded {
		f.mu = &sync.Mutex{}
	}
	return f
}

// CreateFutureFromFunction allocates a wrapper coroutine whose body runs
// fn(arg), stores the result into the future, and resolves it
// (future_create_from_function).
func CreateFutureFromFunction(sched *Scheduler, fn Func, arg any, opts FutureOptions) *Future {
	f := &Future{
		ID:     uuid.New(),
		sched:  sched,
		state:  FutureNew,
		logger: sched.logger,
	}
	if opts.Threaded {
		f.mu = &sync.Mutex{}
	}

	wrapped := func(co *Coroutine, arg any) (result any) {
		defer func() {
			if r := recover(); r != nil {
				f.logger.Error("future wrapper coroutine panicked",
					zap.String("future_id", f.ID.String()),
					zap.Any("panic", r),
				)
				f.rejectFromWrapper()
				panic(r)
			}
		}()
		result = fn(co, arg)
		f.resolveFromWrapper(result)
		return result
	}
	f.coro = CreateCoroutine(sched, wrapped, arg, false)

	if opts.Eager {
		sched.ScheduleCoroutine(f.coro)
		f.state = FuturePending
	}
	return f
}

// resolveFromWrapper is invoked by a function-backed future's wrapper
// coroutine on its natural return, on the scheduler goroutine, so no
// cross-thread signalling is needed.
func (f *Future) resolveFromWrapper(result any) {
	f.lock()
	f.value = result
	f.state = FutureResolved
	f.coro = nil
	f.unlock()
	f.notifyWaiters()
}

// rejectFromWrapper is invoked when a function-backed future's wrapper
// coroutine panics, so the future doesn't stay PENDING forever waiting on a
// coroutine that is never coming back. Mirrors the recover-then-Reject
// pattern Dispatch uses for a worker goroutine that panics.
func (f *Future) rejectFromWrapper() {
	f.lock()
	f.state = FutureRejected
	f.coro = nil
	f.unlock()
	f.notifyWaiters()
}

func (f *Future) lock() {
	if f.mu != nil {
		f.mu.Lock()
	}
}

func (f *Future) unlock() {
	if f.mu != nil {
		f.mu.Unlock()
	}
}

// Start enqueues the future's backing coroutine, if any, and flips state to
// PENDING. Idempotent: a no-op if there's no backing coroutine, or if it's
// already been started.
func (f *Future) Start() error {
	f.lock()
	defer f.unlock()
	if f.coro == nil {
		return nil
	}
	if f.state != FutureNew {
		return nil
	}
	f.state = FuturePending
	return f.sched.ScheduleCoroutine(f.coro)
}

// AddWaiting appends waiting to the future's wait-list and records an
// awaitable-of-this-future on waiting, serialized with resolution.
// It returns true if the future was already terminal
// (RESOLVED or REJECTED) by the time the lock was acquired, in which case
// waiting was NOT added to either list — the caller must not park, closing
// the race between a late waiter and resolution: a waiter either gets
// here before resolution (added here, cleared by notifyWaiters) or after
// (observes the terminal state here and never needs parking at all).
func (f *Future) AddWaiting(waiting *Coroutine) (alreadyDone bool) {
	f.lock()
	if f.state == FutureResolved || f.state == FutureRejected {
		f.unlock()
		return true
	}
	f.waiters = append(f.waiters, waiting)
	waiting.AddWaiting(FutureAwaitable(f))
	f.unlock()
	return false
}

// State returns the future's current lifecycle state.
func (f *Future) State() FutureState {
	f.lock()
	defer f.unlock()
	return f.state
}

// BorrowReturnValue returns the value without transferring ownership.
func (f *Future) BorrowReturnValue() any {
	f.lock()
	defer f.unlock()
	return f.value
}

// TakeReturnValue transfers ownership of the value out of the future.
// Succeeds at most once; subsequent calls return (nil, false).
func (f *Future) TakeReturnValue() (any, bool) {
	f.lock()
	defer f.unlock()
	if f.taken {
		f.logger.Warn("double take of future return value", zap.String("future_id", f.ID.String()))
		return nil, false
	}
	f.taken = true
	return f.value, true
}

// GetFreeFunc exposes the stored destructor, e.g. for a combinator that
// wants to hold it alongside a taken value.
func (f *Future) GetFreeFunc() FreeFunc {
	f.lock()
	defer f.unlock()
	return f.freeFunc
}

// Resolve flips a PENDING future to RESOLVED, stores result and its
// destructor, signals the scheduler if this is a threaded future, then
// clears every waiter's awaitable-of-this-future. A no-op on a future that
// is not PENDING.
func (f *Future) Resolve(result any, free FreeFunc) {
	f.lock()
	if f.state != FuturePending {
		f.unlock()
		return
	}
	f.state = FutureResolved
	f.value = result
	f.freeFunc = free
	if f.mu != nil && f.sched != nil {
		f.sched.Signal()
	}
	f.unlock()
	f.notifyWaiters()
}

// Reject flips a PENDING future to REJECTED and notifies waiters. A no-op
// on a future that is not PENDING.
func (f *Future) Reject() {
	f.lock()
	if f.state != FuturePending {
		f.unlock()
		return
	}
	f.state = FutureRejected
	if f.mu != nil && f.sched != nil {
		f.sched.Signal()
	}
	f.unlock()
	f.notifyWaiters()
}

// notifyWaiters clears every waiter's awaitable-of-this-future, making
// ready any whose awaitable set becomes empty. Deliberately called with the
// future's lock NOT held, to avoid inverted locking against a
// coroutine-side AddWaiting, relying on AddWaiting observing a terminal
// state to close the race.
func (f *Future) notifyWaiters() {
	f.lock()
	waiters := f.waiters
	f.waiters = nil
	f.unlock()

	a := FutureAwaitable(f)
	for _, w := range waiters {
		w.RemoveWaiting(a)
	}
}

// Destroy is illegal while PENDING (a programmer error, logged and
// no-op). Otherwise, a backing coroutine that was never started is
// destroyed, and if the value was never taken and a destructor is set, the
// destructor runs on the value.
func (f *Future) Destroy() {
	if f == nil {
		return
	}
	f.lock()
	if f.state == FuturePending {
		f.unlock()
		f.logger.Error("attempting to destroy a pending future",
			zap.String("future_id", f.ID.String()))
		return
	}
	value, free, taken := f.value, f.freeFunc, f.taken
	unrun := f.coro
	f.coro = nil
	f.unlock()
	if unrun != nil {
		unrun.Destroy()
	}
	if !taken && free != nil {
		free(value)
	}
}

// AllResult is the array produced by the All combinator.
type AllResult struct {
	Values []any
	Free   []FreeFunc
}

// All returns a new coroutine-backed future whose body awaits each input
// future in sequence and collects their values into an AllResult. If take
// is set, each input future's value is taken (rather than borrowed) and
// the input future is destroyed once collected, so the combined result can
// outlive the inputs.
func All(sched *Scheduler, futures []*Future, take bool) *Future {
	body := func(co *Coroutine, _ any) any {
		result := &AllResult{
			Values: make([]any, len(futures)),
			Free:   make([]FreeFunc, len(futures)),
		}
		for i, in := range futures {
			v, _ := sched.AwaitFuture(co, in)
			if take {
				taken, ok := in.TakeReturnValue()
				if ok {
					v = taken
				}
				result.Free[i] = in.GetFreeFunc()
				in.Destroy()
			}
			result.Values[i] = v
		}
		return result
	}
	return CreateFutureFromFunction(sched, body, nil, FutureOptions{})
}

// FreeAllResult runs each element's recorded destructor over its value, if
// the combined future's own destructor is set to this.
func FreeAllResult(r *AllResult) {
	if r == nil {
		return
	}
	for i, v := range r.Values {
		if r.Free[i] != nil {
			r.Free[i](v)
		}
	}
}
