package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	sched, err := NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Close() })
	return sched
}

func TestCoroutineIsReadyMatchesState(t *testing.T) {
	sched := newTestScheduler(t)
	co := CreateCoroutine(sched, func(co *Coroutine, arg any) any { return nil }, nil, true)

	assert.True(t, co.IsReady(), "a NEW coroutine is ready")

	co.SetState(StateSuspended)
	assert.True(t, co.IsReady(), "SUSPENDED with an empty wait-set is ready")

	fut := CreateBareFuture(sched, FutureOptions{})
	co.AddWaiting(FutureAwaitable(fut))
	assert.False(t, co.IsReady(), "SUSPENDED with a non-empty wait-set is not ready")

	co.RemoveWaiting(FutureAwaitable(fut))
	assert.True(t, co.IsReady(), "removing the last awaitable makes it ready again")

	co.SetState(StateRunning)
	assert.False(t, co.IsReady(), "RUNNING is never ready")

	co.SetState(StateFinished)
	assert.False(t, co.IsReady(), "FINISHED is never ready")

	co.Destroy()
}

func TestCoroutineDestroyBeforeRunIsSafe(t *testing.T) {
	sched := newTestScheduler(t)
	co := CreateCoroutine(sched, func(co *Coroutine, arg any) any {
		t.Fatal("body of an unscheduled, destroyed coroutine must never run")
		return nil
	}, nil, true)

	co.Destroy()
}

func TestCoroutineWaitingSetIsSafeFromAnotherGoroutine(t *testing.T) {
	sched := newTestScheduler(t)
	co := CreateCoroutine(sched, func(co *Coroutine, arg any) any { return nil }, nil, true)
	co.SetState(StateSuspended)

	fut := CreateBareFuture(sched, FutureOptions{})
	co.AddWaiting(FutureAwaitable(fut))

	done := make(chan struct{})
	go func() {
		co.RemoveWaiting(FutureAwaitable(fut))
		close(done)
	}()
	<-done

	assert.True(t, co.IsReady(), "a clear issued from another goroutine must be visible here")
	co.Destroy()
}

func TestAwaitableEqual(t *testing.T) {
	sched := newTestScheduler(t)
	f1 := CreateBareFuture(sched, FutureOptions{})
	f2 := CreateBareFuture(sched, FutureOptions{})

	assert.True(t, FutureAwaitable(f1).Equal(FutureAwaitable(f1)))
	assert.False(t, FutureAwaitable(f1).Equal(FutureAwaitable(f2)))
	assert.False(t, FutureAwaitable(f1).Equal(FDAwaitable(3)))
	assert.True(t, FDAwaitable(3).Equal(FDAwaitable(3)))
	assert.False(t, FDAwaitable(3).Equal(FDAwaitable(4)))
}
