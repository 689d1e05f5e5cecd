// Package async is a cooperative coroutine and future scheduler: a single
// goroutine runs a ready-queue of suspendable tasks, coordinating with
// worker goroutines through futures instead of OS threads and mutexes
// sprinkled through application code.
//
// A Scheduler owns the ready-queue and a poll(2)-based multiplexer used
// only to wait for cross-goroutine wakeups; nothing in the core ever
// registers application file descriptors with it. Coroutines suspend by
// Yield, by AwaitFuture on a Future that is not yet settled, or by
// AwaitFunction, and resume in the order the scheduler picks them back up.
//
// Futures come in two flavors: bare futures, created with CreateBareFuture
// and resolved from a worker goroutine launched through Dispatch, and
// function-backed futures, created with CreateFutureFromFunction and
// resolved by their own wrapper coroutine running on the scheduler
// goroutine. All returns borrow their values unless TakeReturnValue is
// used to move ownership out before the future is destroyed.
package async
