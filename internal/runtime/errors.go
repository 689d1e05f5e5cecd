package runtime

import "errors"

// Resource-exhaustion and protocol errors. These are plain
// wrapped standard-library errors rather than a third-party wrapping
// library: no example in the corpus reaches for one on top of %w, and there
// is nothing here an error-wrapping package would add (no stack traces to
// aggregate, no multi-error joins) — see DESIGN.md.
var (
	// ErrNoCurrentScheduler is returned/panicked when an operation that
	// requires a running scheduler (Yield, AwaitFuture) is attempted
	// outside of one.
	ErrNoCurrentScheduler = errors.New("goasync: no scheduler running on this goroutine")

	// ErrDispatchFailed is wrapped into the error Dispatch returns when it
	// is given a nil scheduler. In Go, goroutine creation itself cannot fail
	// short of the process dying, and allocation failure is not reported
	// through this error either.
	ErrDispatchFailed = errors.New("goasync: failed to dispatch worker")
)
