package async

import "github.com/nilcoro/async/internal/runtime"

// Awaitable is a tagged reference to something a coroutine can be blocked
// on: a Future or a watched file descriptor.
type Awaitable = runtime.Awaitable

// FutureAwaitable builds an Awaitable referring to f.
func FutureAwaitable(f *Future) Awaitable { return runtime.FutureAwaitable(f.inner) }

// FDAwaitable builds an Awaitable referring to a watched file descriptor.
// The only descriptor in the scheduler's watched-fd table is its own wakeup
// channel, and no exported function adds others. The scheduler never clears
// an FD awaitable on its own: a coroutine waiting on one stays blocked until
// RemoveWaiting is called for it.
func FDAwaitable(fd int) Awaitable { return runtime.FDAwaitable(fd) }
