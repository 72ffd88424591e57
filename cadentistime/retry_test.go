package cadentistime

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadentis/cadentis"
	"github.com/cadentis/cadentis/internal/task"
)

// TestRetrySucceedsOnThirdAttempt exercises spec.md §8 scenario F: a
// factory failing on attempts 1 and 2 and succeeding on attempt 3, with a
// 20ms interval between attempts.
func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	rt := newTestRuntime(t)

	var attempts int
	factory := func() cadentis.Future[cadentis.Result[int]] {
		attempts++
		n := attempts
		return task.FutureFunc[cadentis.Result[int]](func(*task.Waker) task.Poll[cadentis.Result[int]] {
			if n < 3 {
				return task.Ready(cadentis.Result[int]{Err: errors.New("not yet")})
			}
			return task.Ready(cadentis.Result[int]{Value: 77})
		})
	}

	before := time.Now()
	res := cadentis.BlockOn[cadentis.Result[int]](rt, Retry[int](rt, 3, 20*time.Millisecond, factory))
	elapsed := time.Since(before)

	require.NoError(t, res.Err)
	require.Equal(t, 77, res.Value)
	require.Equal(t, 3, attempts)
	require.GreaterOrEqual(t, elapsed, 2*20*time.Millisecond)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	rt := newTestRuntime(t)

	var attempts int
	factory := func() cadentis.Future[cadentis.Result[int]] {
		attempts++
		return task.FutureFunc[cadentis.Result[int]](func(*task.Waker) task.Poll[cadentis.Result[int]] {
			return task.Ready(cadentis.Result[int]{Err: errors.New("always fails")})
		})
	}

	res := cadentis.BlockOn[cadentis.Result[int]](rt, Retry[int](rt, 3, time.Millisecond, factory))

	require.Error(t, res.Err)
	require.Equal(t, 3, attempts)
}
