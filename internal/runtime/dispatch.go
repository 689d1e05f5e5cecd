package runtime

import (
	"fmt"

	"go.uber.org/zap"
)

// dispatchError wraps ErrDispatchFailed with context, so callers can
// errors.Is against the sentinel while still getting a useful message.
func dispatchError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrDispatchFailed)
}

// DispatchFunc is the body a dispatched worker runs. It receives the bare
// future it must eventually Resolve or Reject, and the argument passed to
// Dispatch.
type DispatchFunc func(f *Future, arg any)

// Dispatch launches producer on its own goroutine against a fresh THREADED
// bare future, the Go substitute for spawning a detached OS thread: there
// is no "thread creation failed" path to report here, since goroutine
// creation cannot fail short of the process running out of memory, at
// which point nothing could report it anyway; the only error returned is
// for a nil scheduler. The worker is tracked in the scheduler's worker group
// so Wait can block until outstanding workers have returned. Close does not
// wait for them.
func Dispatch(sched *Scheduler, producer DispatchFunc, arg any) (*Future, error) {
	if sched == nil {
		return nil, dispatchError("goasync: cannot dispatch without a scheduler")
	}
	f := CreateBareFuture(sched, FutureOptions{Threaded: true})
	f.state = FuturePending

	sched.workers.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				sched.logger.Error("dispatched worker panicked",
					zap.String("future_id", f.ID.String()),
					zap.Any("panic", r),
				)
				f.Reject()
			}
		}()
		producer(f, arg)
		return nil
	})

	return f, nil
}

// Wait blocks until every worker launched through Dispatch on this
// scheduler has returned. Close does not call it; callers that want an
// orderly shutdown call Wait before Close.
func (s *Scheduler) Wait() error {
	return s.workers.Wait()
}
