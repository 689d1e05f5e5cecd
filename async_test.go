package async_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nilcoro/async"
)

func TestRunAndYieldThroughFacade(t *testing.T) {
	sched, err := async.NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	var order []string
	code, err := sched.Run(func(co *async.Coroutine, arg any) any {
		order = append(order, "A")
		co.Yield()
		order = append(order, "B")
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"A", "B"}, order)
}

func TestAllCombinatorThroughFacade(t *testing.T) {
	sched, err := async.NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	f1 := async.CreateFutureFromFunction(sched, func(co *async.Coroutine, arg any) any { return 99 }, nil, async.FutureOptions{Eager: true})
	f2 := async.CreateFutureFromFunction(sched, func(co *async.Coroutine, arg any) any { return 42 }, nil, async.FutureOptions{Eager: true})
	combined := async.All(sched, []*async.Future{f1, f2}, false)

	var result *async.AllResult
	_, err = sched.Run(func(co *async.Coroutine, arg any) any {
		v, ok := sched.AwaitFuture(co, combined)
		require.True(t, ok)
		result = v.(*async.AllResult)
		return nil
	}, nil)

	require.NoError(t, err)
	require.Len(t, result.Values, 2)
	assert.Equal(t, 99, result.Values[0])
	assert.Equal(t, 42, result.Values[1])
}

func TestDispatchThroughFacade(t *testing.T) {
	sched, err := async.NewScheduler()
	require.NoError(t, err)
	defer sched.Close()

	f, err := async.Dispatch(sched, func(f *async.Future, arg any) {
		time.Sleep(10 * time.Millisecond)
		f.Resolve(arg, nil)
	}, "payload")
	require.NoError(t, err)

	var v any
	var ok bool
	_, err = sched.Run(func(co *async.Coroutine, arg any) any {
		v, ok = sched.AwaitFuture(co, f)
		return nil
	}, nil)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", v)

	require.NoError(t, sched.Wait())
}
