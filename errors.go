package async

import "github.com/nilcoro/async/internal/runtime"

// ErrNoCurrentScheduler is returned/panicked when an operation that
// requires a running scheduler is attempted outside of one.
var ErrNoCurrentScheduler = runtime.ErrNoCurrentScheduler

// ErrDispatchFailed is wrapped into the error Dispatch returns when it is
// given a scheduler with no runtime behind it.
var ErrDispatchFailed = runtime.ErrDispatchFailed
