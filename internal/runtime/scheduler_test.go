package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1: empty run. An entry coroutine that immediately returns a
// constant; Run must return 0 and leave nothing dangling.
func TestRunEmptyEntry(t *testing.T) {
	sched := newTestScheduler(t)

	var result any
	code, err := sched.Run(func(co *Coroutine, arg any) any {
		result = 1337
		return result
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, 1337, result)
}

// Scenario 2: a single yield. The entry coroutine records "A", yields, then
// records "B". The scheduler must observe SUSPENDED between the two, and
// the recorded order must be A before B.
func TestRunSingleYield(t *testing.T) {
	sched := newTestScheduler(t)

	var order []string
	code, err := sched.Run(func(co *Coroutine, arg any) any {
		order = append(order, "A")
		co.Yield()
		order = append(order, "B")
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"A", "B"}, order)
}

// Scenario 3: two eager function-futures combined with All, borrowed (not
// taken). Both constituents must be RESOLVED before the combined future
// resolves, and the collected values must preserve input order.
func TestAllCombinatorEagerBorrowed(t *testing.T) {
	sched := newTestScheduler(t)

	f1 := CreateFutureFromFunction(sched, func(co *Coroutine, arg any) any { return 99 }, nil, FutureOptions{Eager: true})
	f2 := CreateFutureFromFunction(sched, func(co *Coroutine, arg any) any { return 42 }, nil, FutureOptions{Eager: true})

	combined := All(sched, []*Future{f1, f2}, false)

	var result *AllResult
	code, err := sched.Run(func(co *Coroutine, arg any) any {
		v, ok := sched.AwaitFuture(co, combined)
		require.True(t, ok)
		result = v.(*AllResult)
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	require.NotNil(t, result)
	require.Len(t, result.Values, 2)
	assert.Equal(t, 99, result.Values[0])
	assert.Equal(t, 42, result.Values[1])
	assert.Equal(t, FutureResolved, f1.State())
	assert.Equal(t, FutureResolved, f2.State())
	assert.Equal(t, FutureResolved, combined.State())
}

// Scenario 6: a lazy (non-eager) future that is never awaited. Its backing
// coroutine must never be scheduled, and destroying it while NEW must be
// legal.
func TestLazyFutureNeverAwaited(t *testing.T) {
	sched := newTestScheduler(t)

	ran := false
	f := CreateFutureFromFunction(sched, func(co *Coroutine, arg any) any {
		ran = true
		return nil
	}, nil, FutureOptions{})

	assert.Equal(t, FutureNew, f.State())

	code, err := sched.Run(func(co *Coroutine, arg any) any { return nil }, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	assert.False(t, ran, "a lazy future's backing coroutine must not run unless awaited")
	assert.Equal(t, FutureNew, f.State())

	f.Destroy()
}

func TestAwaitFutureAlreadyResolved(t *testing.T) {
	sched := newTestScheduler(t)
	f := CreateFutureFromFunction(sched, func(co *Coroutine, arg any) any { return "done" }, nil, FutureOptions{Eager: true})

	var v any
	var ok bool
	_, err := sched.Run(func(co *Coroutine, arg any) any {
		// The eager future's coroutine was queued ahead of this entry
		// coroutine, so it has already resolved: both awaits observe
		// RESOLVED immediately, with no parking.
		sched.AwaitFuture(co, f)
		v, ok = sched.AwaitFuture(co, f)
		return nil
	}, nil)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "done", v)
}

func TestAwaitFunctionYieldsOnceThenCallsSynchronously(t *testing.T) {
	sched := newTestScheduler(t)

	var order []string
	_, err := sched.Run(func(co *Coroutine, arg any) any {
		order = append(order, "before")
		result := sched.AwaitFunction(co, func(arg any) any {
			order = append(order, "fn")
			return 7
		}, nil)
		order = append(order, "after")
		assert.Equal(t, 7, result)
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"before", "fn", "after"}, order)
}
