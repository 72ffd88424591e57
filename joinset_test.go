package cadentis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cadentis/cadentis/internal/task"
)

func TestJoinSetJoinAllCollectsEveryResult(t *testing.T) {
	rt := newTestRuntime(t)

	set := NewJoinSet[int]()
	for i := 0; i < 5; i++ {
		set.Spawn(rt, constFuture[int]{v: i})
	}

	results := set.JoinAll(rt)
	require.Len(t, results, 5)

	var sum int
	for _, r := range results {
		require.NoError(t, r.Err)
		sum += r.Value
	}
	require.Equal(t, 10, sum)
	require.Equal(t, 0, set.Len())
}

func TestJoinSetRaceNAbortsTheRest(t *testing.T) {
	rt := newTestRuntime(t)

	set := NewJoinSet[int]()
	set.Spawn(rt, constFuture[int]{v: 1})
	set.Spawn(rt, constFuture[int]{v: 2})
	set.Spawn(rt, constFuture[int]{v: 3})

	res := set.RaceN(rt)
	require.NoError(t, res.Err)
	require.Contains(t, []int{1, 2, 3}, res.Value)
	require.Equal(t, 0, set.Len())
}

func TestRaceHelper(t *testing.T) {
	rt := newTestRuntime(t)

	fs := []Future[int]{
		constFuture[int]{v: 10},
		constFuture[int]{v: 20},
	}
	res := Race[int](rt, fs)
	require.NoError(t, res.Err)
	require.Contains(t, []int{10, 20}, res.Value)
}

func TestJoinSetAllSettledReportsErrors(t *testing.T) {
	rt := newTestRuntime(t)

	set := NewJoinSet[int]()
	set.Spawn(rt, constFuture[int]{v: 1})
	set.Spawn(rt, task.FutureFunc[int](func(*task.Waker) Poll[int] {
		panic("boom")
	}))

	results := set.JoinSetAllSettled(rt)
	require.Len(t, results, 2)

	var successes, failures int
	for _, r := range results {
		if r.Err != nil {
			failures++
		} else {
			successes++
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, failures)
}
