package runtime

// turn is the Go stand-in for the C original's register-context switch.
// Go gives every goroutine its own growable stack but no portable way to
// save/restore one goroutine's program counter and resume it from another,
// so a coroutine here is backed by a real goroutine that is parked on an
// unbuffered channel whenever it is not its turn to run. Exactly one side
// of a turn is ever runnable at a time, which reproduces the switch(from,
// to) contract: the caller's view is that switch returns when some other
// switch targets from again.
type turn struct {
	toCoroutine chan struct{}
	toScheduler chan struct{}
}

func newTurn() turn {
	return turn{
		toCoroutine: make(chan struct{}),
		toScheduler: make(chan struct{}),
	}
}

// resumeCoroutine hands control to the coroutine side and blocks until it
// yields or finishes and hands control back.
func (t turn) resumeCoroutine() {
	t.toCoroutine <- struct{}{}
	<-t.toScheduler
}

// yieldToScheduler hands control back to the scheduler side and blocks until
// the scheduler resumes this coroutine again.
func (t turn) yieldToScheduler() {
	t.toScheduler <- struct{}{}
	<-t.toCoroutine
}
