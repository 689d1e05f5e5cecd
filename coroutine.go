package async

import (
	"github.com/google/uuid"

	"github.com/nilcoro/async/internal/runtime"
)

// State is a coroutine's lifecycle state.
type State = runtime.State

const (
	StateNew       = runtime.StateNew
	StateRunning   = runtime.StateRunning
	StateSuspended = runtime.StateSuspended
	StateFinished  = runtime.StateFinished
	StateFailed    = runtime.StateFailed
)

// Func is a coroutine body, given the Coroutine it is running as so it can
// Yield or await things without relying on ambient lookup.
type Func func(co *Coroutine, arg any) any

func wrapFunc(fn Func) runtime.Func {
	if fn == nil {
		return nil
	}
	return func(co *runtime.Coroutine, arg any) any {
		return fn(&Coroutine{inner: co}, arg)
	}
}

// Coroutine is a suspendable unit of work with its own goroutine, a
// lifecycle state, and a set of things it is waiting on.
type Coroutine struct {
	inner *runtime.Coroutine
}

// CreateCoroutine allocates a coroutine backed by a fresh goroutine.
// owned marks coroutines whose destruction is the caller's responsibility
// rather than the scheduler's (see (*Coroutine).IsOwned).
func CreateCoroutine(sched *Scheduler, fn Func, arg any, owned bool) *Coroutine {
	return &Coroutine{inner: runtime.CreateCoroutine(sched.inner, wrapFunc(fn), arg, owned)}
}

// ID returns the coroutine's unique identifier, mainly useful for logging.
func (c *Coroutine) ID() uuid.UUID { return c.inner.ID }

// Run switches into the coroutine, suspending the caller until it yields
// or finishes. Only ever called by the scheduler's run loop.
func (c *Coroutine) Run() { c.inner.Run() }

// Yield suspends the currently-running coroutine and hands control back to
// the scheduler. Must only be called from within the coroutine's own body.
func (c *Coroutine) Yield() { c.inner.Yield() }

// AddWaiting appends an awaitable to the coroutine's wait-set.
func (c *Coroutine) AddWaiting(a Awaitable) { c.inner.AddWaiting(a) }

// RemoveWaiting removes one matching occurrence of a, if present.
func (c *Coroutine) RemoveWaiting(a Awaitable) { c.inner.RemoveWaiting(a) }

// IsReady reports whether the coroutine can be resumed right now.
func (c *Coroutine) IsReady() bool { return c.inner.IsReady() }

// State returns the coroutine's current lifecycle state.
func (c *Coroutine) State() State { return c.inner.State() }

// SetState forcibly sets the coroutine's lifecycle state.
func (c *Coroutine) SetState(s State) { c.inner.SetState(s) }

// ReturnValue returns the value produced when the function returned, or
// the panic payload if the coroutine is StateFailed.
func (c *Coroutine) ReturnValue() any { return c.inner.ReturnValue() }

// IsOwned reports whether this coroutine's lifecycle is managed by an
// external holder rather than auto-destroyed by the scheduler.
func (c *Coroutine) IsOwned() bool { return c.inner.IsOwned() }

// Destroy releases the coroutine.
func (c *Coroutine) Destroy() { c.inner.Destroy() }
