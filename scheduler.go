package async

import (
	"go.uber.org/zap"

	"github.com/nilcoro/async/internal/runtime"
)

// Scheduler is the single-threaded run loop that owns a ready-queue of
// coroutines and the multiplexer used to wait for worker wakeups.
type Scheduler struct {
	inner *runtime.Scheduler
}

// SchedulerOption configures a Scheduler at construction.
type SchedulerOption = runtime.SchedulerOption

// WithLogger injects a *zap.Logger; the scheduler is silent by default.
func WithLogger(logger *zap.Logger) SchedulerOption { return runtime.WithLogger(logger) }

// WithPollTimeoutMS overrides the multiplexer's blocking-wait bound, in
// milliseconds. Defaults to 1000.
func WithPollTimeoutMS(ms int) SchedulerOption { return runtime.WithPollTimeoutMS(ms) }

// NewScheduler creates a scheduler, opening its wakeup channel.
func NewScheduler(opts ...SchedulerOption) (*Scheduler, error) {
	inner, err := runtime.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}
	return &Scheduler{inner: inner}, nil
}

// Run creates an owned entry coroutine running entrypoint(arg), schedules
// it, and drives the ready-queue until it is empty. Returns 0 on success.
func (s *Scheduler) Run(entrypoint Func, arg any) (int, error) {
	return s.inner.Run(wrapFunc(entrypoint), arg)
}

// ScheduleCoroutine appends co to the ready-queue.
func (s *Scheduler) ScheduleCoroutine(co *Coroutine) error {
	return s.inner.ScheduleCoroutine(co.inner)
}

// Signal wakes the scheduler's multiplexer wait. Safe to call from any
// goroutine, typically a worker resolving a dispatched future.
func (s *Scheduler) Signal() error { return s.inner.Signal() }

// Current returns the coroutine presently executing on the scheduler
// goroutine, or nil between coroutines.
func (s *Scheduler) Current() *Coroutine {
	co := s.inner.Current()
	if co == nil {
		return nil
	}
	return &Coroutine{inner: co}
}

// AwaitFuture suspends co until f settles, returning its borrowed value and
// true on resolution, or (nil, false) on rejection.
func (s *Scheduler) AwaitFuture(co *Coroutine, f *Future) (any, bool) {
	return s.inner.AwaitFuture(co.inner, f.inner)
}

// AwaitFunction yields once, then synchronously invokes fn(arg) and
// returns its value. No future is created.
func (s *Scheduler) AwaitFunction(co *Coroutine, fn func(arg any) any, arg any) any {
	return s.inner.AwaitFunction(co.inner, fn, arg)
}

// Wait blocks until every worker launched through Dispatch on this
// scheduler has returned.
func (s *Scheduler) Wait() error { return s.inner.Wait() }

// Close tears down the scheduler's wakeup channel. Safe to call once.
func (s *Scheduler) Close() error { return s.inner.Close() }
