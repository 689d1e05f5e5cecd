package runtime

import (
	"container/list"
	"fmt"
	goruntime "runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultPollTimeoutMS is the multiplexer's wall-clock sleep bound when
// nothing is signalled, matching the "1s is a reasonable default" language
// in the original C runtime.
const defaultPollTimeoutMS = 1000

// Scheduler is the single-threaded run loop that owns the ready-queue and
// the multiplexer ("async context" in the original C runtime).
//
// Every exported method here, except Signal and Dispatch, is only ever
// safe to call from the single goroutine that is executing Run — exactly
// the single designated scheduler goroutine. Signal and
// the future-resolution half of Dispatch are the two operations a worker
// goroutine is allowed to perform.
type Scheduler struct {
	ready   *list.List // of *Coroutine
	current *Coroutine
	entry   *Coroutine

	wakeup *wakeupChannel
	fds    *pollfdTable

	pollTimeoutMS int
	logger        *zap.Logger

	workers *errgroup.Group

	closeOnce sync.Once
}

// SchedulerOption configures a Scheduler at construction.
type SchedulerOption func(*Scheduler)

// WithLogger injects a structured logger. Defaults to a no-op logger, so
// the library is silent unless a caller opts in, mirroring the posture
// jkilzi-assisted-migration-agent's internal/services packages take with
// their injected *zap.Logger.
func WithLogger(logger *zap.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPollTimeoutMS overrides the multiplexer's blocking-wait bound.
func WithPollTimeoutMS(ms int) SchedulerOption {
	return func(s *Scheduler) { s.pollTimeoutMS = ms }
}

// NewScheduler creates a scheduler with its wakeup channel and watched-fd
// table initialized (async_context_create).
func NewScheduler(opts ...SchedulerOption) (*Scheduler, error) {
	s := &Scheduler{
		ready:         list.New(),
		pollTimeoutMS: defaultPollTimeoutMS,
		logger:        zap.NewNop(),
		workers:       &errgroup.Group{},
	}
	for _, opt := range opts {
		opt(s)
	}

	wakeup, err := newWakeupChannel()
	if err != nil {
		return nil, fmt.Errorf("goasync: creating wakeup channel: %w", err)
	}
	s.wakeup = wakeup
	s.fds = newPollfdTable(wakeup.read)
	return s, nil
}

// Current returns the coroutine presently executing on the scheduler
// goroutine, or nil if the scheduler is between coroutines (blocked in the
// multiplexer, or not running). This plays the role the C original fills
// with a thread-local "current scheduler/coroutine" pointer — since every
// Coroutine already carries an explicit reference to its Scheduler, no
// actual thread-local storage is needed here.
func (s *Scheduler) Current() *Coroutine { return s.current }

// ScheduleCoroutine appends co to the ready-queue (async_schedule_coroutine).
func (s *Scheduler) ScheduleCoroutine(co *Coroutine) error {
	if co == nil {
		return fmt.Errorf("goasync: cannot schedule a nil coroutine")
	}
	s.ready.PushBack(co)
	return nil
}

// maxSignalRetries bounds the retry loop in Signal. The C original retries
// a failed wakeup write forever via thrd_yield(); that is a reasonable
// choice in a single-purpose process but a poor one in a library meant to
// be embedded, so this port gives up after a small bounded number of
// attempts and logs instead of hanging a worker goroutine.
const maxSignalRetries = 8

// Signal wakes the scheduler's multiplexer wait from any goroutine
// (async_signal_scheduler). Safe to call from a worker goroutine. A failed
// write (other than EAGAIN, which means the channel is already signalled)
// is retried a bounded number of times before being logged and returned.
func (s *Scheduler) Signal() error {
	var err error
	for attempt := 0; attempt < maxSignalRetries; attempt++ {
		if err = s.wakeup.signal(); err == nil {
			return nil
		}
		goruntime.Gosched()
	}
	s.logger.Error("giving up signalling scheduler wakeup channel",
		zap.Error(err), zap.Int("attempts", maxSignalRetries))
	return err
}

// Run creates an owned entry coroutine for entrypoint(arg), schedules it,
// and runs the main loop until the ready-queue is empty
// (async_context_run). Returns 0 on success.
func (s *Scheduler) Run(entrypoint Func, arg any) (int, error) {
	entry := CreateCoroutine(s, entrypoint, arg, true)
	s.entry = entry
	if err := s.ScheduleCoroutine(entry); err != nil {
		return 1, err
	}

	s.logger.Debug("starting scheduler main loop")
	s.mainLoop()
	s.logger.Debug("scheduler main loop finished")

	entry.Destroy()
	return 0, nil
}

// nextCoroutine scans the ready-queue head to tail, removing and returning
// the first ready coroutine. Coroutines that are not ready are left in
// place — this is the "best-effort FIFO among ready coroutines" selection
// policy this runtime uses.
func (s *Scheduler) nextCoroutine() *Coroutine {
	for e := s.ready.Front(); e != nil; e = e.Next() {
		co := e.Value.(*Coroutine)
		if co.IsReady() {
			s.ready.Remove(e)
			return co
		}
	}
	return nil
}

func (s *Scheduler) mainLoop() {
	for {
		for {
			co := s.nextCoroutine()
			if co == nil {
				break
			}
			s.current = co
			co.Run()

			switch co.State() {
			case StateFinished, StateFailed:
				if !co.IsOwned() {
					co.Destroy()
				}
			case StateSuspended:
				s.ready.PushBack(co)
			default:
				panic(fmt.Sprintf("goasync: coroutine left in invalid state %v after resumption", co.State()))
			}
		}
		s.current = nil

		if s.ready.Len() == 0 {
			return
		}

		if err := s.fds.wait(s.pollTimeoutMS); err != nil {
			s.logger.Warn("multiplexer wait failed", zap.Error(err))
		}
		if s.fds.wakeupReady() {
			s.logger.Debug("poll woken up through wakeup channel")
			s.wakeup.drain()
		}
	}
}

// AwaitFuture suspends co until f settles, returning its borrowed value and
// true on RESOLVED, or (nil, false) on REJECTED (async_await_future).
func (s *Scheduler) AwaitFuture(co *Coroutine, f *Future) (any, bool) {
	switch f.State() {
	case FutureResolved:
		return f.BorrowReturnValue(), true
	case FutureRejected:
		return nil, false
	}

	if f.State() == FutureNew {
		if err := f.Start(); err != nil {
			s.logger.Error("failed to schedule future", zap.Error(err), zap.String("future_id", f.ID.String()))
			return nil, false
		}
	}

	if alreadyDone := f.AddWaiting(co); !alreadyDone {
		co.Yield()
	}

	if f.State() != FutureResolved {
		return nil, false
	}
	return f.BorrowReturnValue(), true
}

// AwaitFunction yields once, letting the scheduler pick up other ready
// work, then synchronously invokes fn(arg) and returns its value. No future
// is created (async_await_function).
func (s *Scheduler) AwaitFunction(co *Coroutine, fn func(arg any) any, arg any) any {
	co.Yield()
	return fn(arg)
}

// Close tears down the scheduler's wakeup channel and watched-fd table
// (async_context_destroy). Safe to call once; subsequent calls are no-ops.
func (s *Scheduler) Close() error {
	s.closeOnce.Do(func() {
		s.wakeup.close()
	})
	return nil
}
