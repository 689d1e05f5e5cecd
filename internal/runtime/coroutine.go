package runtime

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is a coroutine's lifecycle state.
type State int

const (
	// StateNew is a coroutine that has never run.
	StateNew State = iota
	// StateRunning is a coroutine currently executing on the scheduler
	// goroutine.
	StateRunning
	// StateSuspended is a coroutine that has yielded and may or may not be
	// ready to resume, depending on whether its awaitable set is empty.
	StateSuspended
	// StateFinished is a coroutine whose function has returned. Terminal.
	StateFinished
	// StateFailed is a coroutine whose function panicked. Terminal. The
	// original's CO_FAILED is declared but never reached, since its failure
	// path is a process abort; here a panic is recovered at the trampoline
	// boundary instead of crashing the embedding binary.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Func is a coroutine body. It receives the Coroutine it is running as so it
// can Yield or await things without relying on thread-local lookup; the
// scheduler and coroutine are always passed explicitly rather than looked
// up from ambient state.
type Func func(co *Coroutine, arg any) any

// Coroutine is a suspendable unit of work with its own goroutine, a
// lifecycle state, and a multiset of things it is waiting on.
type Coroutine struct {
	ID uuid.UUID

	sched *Scheduler
	turn  turn

	fn  Func
	arg any

	state State

	waitingMu sync.Mutex
	waiting   []Awaitable // multiset: duplicates are meaningful, so this is a list, not a set

	returnValue any
	owned       bool

	abandon  chan struct{}
	started  bool
	finished bool

	logger *zap.Logger
}

// CreateCoroutine allocates a coroutine backed by a fresh goroutine parked on
// its turn channel, analogous to coro_create preparing an initial stack
// context whose first switch lands in the trampoline.
func CreateCoroutine(sched *Scheduler, fn Func, arg any, owned bool) *Coroutine {
	co := &Coroutine{
		ID:      uuid.New(),
		sched:   sched,
		turn:    newTurn(),
		fn:      fn,
		arg:     arg,
		state:   StateNew,
		owned:   owned,
		abandon: make(chan struct{}),
		logger:  sched.logger,
	}
	go co.trampoline()
	return co
}

// trampoline is the goroutine body parked behind turn.toCoroutine. It mirrors
// _coro_run_trampoline: on first entry it runs the coroutine function and,
// on return, records FINISHED (or FAILED, on panic) and hands control back to
// the scheduler. It must never run twice.
func (co *Coroutine) trampoline() {
	select {
	case <-co.turn.toCoroutine:
		// Fall through to run the body.
	case <-co.abandon:
		// Destroyed before ever being scheduled, e.g. a lazy future whose
		// backing coroutine was never awaited.
		return
	}

	defer func() {
		if r := recover(); r != nil {
			co.returnValue = r
			co.state = StateFailed
			co.logger.Error("coroutine panicked",
				zap.String("coroutine_id", co.ID.String()),
				zap.Any("panic", r),
			)
		}
		co.finished = true
		co.turn.toScheduler <- struct{}{}
	}()

	co.logger.Debug("calling coroutine", zap.String("coroutine_id", co.ID.String()))
	co.returnValue = co.fn(co, co.arg)
	co.state = StateFinished
	co.logger.Debug("coroutine finished",
		zap.String("coroutine_id", co.ID.String()),
		zap.Any("return_value", co.returnValue),
	)
}

// Run switches into the coroutine's context, suspending the caller until the
// coroutine yields or finishes. It is only ever called by the scheduler.
func (co *Coroutine) Run() {
	co.started = true
	co.state = StateRunning
	co.turn.resumeCoroutine()
}

// Yield suspends the currently-running coroutine and hands control back to
// the scheduler. It must only be called from within the coroutine's own
// body; a coroutine with no scheduler has no context to yield back into,
// which is fatal.
func (co *Coroutine) Yield() {
	if co.sched == nil {
		panic(ErrNoCurrentScheduler)
	}
	co.state = StateSuspended
	co.logger.Debug("yielding", zap.String("coroutine_id", co.ID.String()))
	co.turn.yieldToScheduler()
}

// AddWaiting appends an awaitable to the coroutine's multiset. Guarded by its
// own mutex, not the scheduler goroutine's single-threadedness, because a
// threaded future's resolver clears waiters from a worker goroutine
// (notifyWaiters) concurrently with the scheduler goroutine adding to or
// reading this same multiset.
func (co *Coroutine) AddWaiting(a Awaitable) {
	co.waitingMu.Lock()
	co.waiting = append(co.waiting, a)
	co.waitingMu.Unlock()
}

// RemoveWaiting removes one matching occurrence of a from the multiset, if
// present. No-op if absent. See AddWaiting for why this is locked.
func (co *Coroutine) RemoveWaiting(a Awaitable) {
	co.waitingMu.Lock()
	defer co.waitingMu.Unlock()
	for i, w := range co.waiting {
		if w.Equal(a) {
			co.waiting = append(co.waiting[:i], co.waiting[i+1:]...)
			return
		}
	}
}

// IsReady reports whether the coroutine can be resumed right now: it is NEW,
// or SUSPENDED with an empty awaitable set.
func (co *Coroutine) IsReady() bool {
	if co.state == StateNew {
		return true
	}
	if co.state == StateSuspended {
		co.waitingMu.Lock()
		defer co.waitingMu.Unlock()
		return len(co.waiting) == 0
	}
	return false
}

// State returns the coroutine's current lifecycle state.
func (co *Coroutine) State() State { return co.state }

// SetState forcibly sets the coroutine's lifecycle state. Used by the
// scheduler and future wrapper to record terminal states.
func (co *Coroutine) SetState(s State) { co.state = s }

// ReturnValue returns the value produced when the function returned (or the
// panic payload, for StateFailed).
func (co *Coroutine) ReturnValue() any { return co.returnValue }

// IsOwned reports whether this coroutine's lifecycle is managed by an
// external holder (true — e.g. the entry coroutine of Run, destroyed by the
// caller) rather than by the scheduler itself (false — e.g. a future's
// wrapper coroutine, auto-destroyed once it reaches a terminal state).
func (co *Coroutine) IsOwned() bool { return co.owned }

// Destroy releases the coroutine. If it was never run, its backing goroutine
// is released via the abandon channel. Once a coroutine has been run,
// Destroy does nothing: a finished coroutine's goroutine has already exited,
// and a suspended one's goroutine stays parked on its turn channel.
func (co *Coroutine) Destroy() {
	if co == nil {
		return
	}
	if !co.started {
		close(co.abandon)
	}
}
