package async

import "github.com/nilcoro/async/internal/runtime"

// DispatchFunc is the body a dispatched worker runs, given the bare future
// it must eventually Resolve or Reject, and the argument passed to
// Dispatch.
type DispatchFunc func(f *Future, arg any)

// Dispatch launches producer on its own goroutine against a fresh THREADED
// bare future: the Go substitute for spawning a detached OS thread. The
// producer is responsible for eventually calling Resolve or Reject on the
// future it is given.
func Dispatch(sched *Scheduler, producer DispatchFunc, arg any) (*Future, error) {
	inner, err := runtime.Dispatch(sched.inner, func(f *runtime.Future, arg any) {
		producer(&Future{inner: f}, arg)
	}, arg)
	if err != nil {
		return nil, err
	}
	return &Future{inner: inner}, nil
}
