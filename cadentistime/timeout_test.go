package cadentistime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadentis/cadentis"
)

// TestTimeoutSuccess exercises spec.md §8 scenario D: the inner future
// resolves comfortably inside the deadline.
func TestTimeoutSuccess(t *testing.T) {
	rt := newTestRuntime(t)

	f := sleepThenValue(rt, 10*time.Millisecond, 123)
	res := cadentis.BlockOn[cadentis.Result[int]](rt, Timeout[int](rt, 50*time.Millisecond, f))

	require.NoError(t, res.Err)
	require.Equal(t, 123, res.Value)
}

// TestTimeoutExpiry exercises spec.md §8 scenario E: the deadline elapses
// before the inner future resolves.
func TestTimeoutExpiry(t *testing.T) {
	rt := newTestRuntime(t)

	f := sleepThenValue(rt, 100*time.Millisecond, 456)
	res := cadentis.BlockOn[cadentis.Result[int]](rt, Timeout[int](rt, 20*time.Millisecond, f))

	require.ErrorIs(t, res.Err, ErrTimedOut)
}

type sleepThenValueFuture struct {
	sleep cadentis.Future[struct{}]
	value int
}

func (f *sleepThenValueFuture) Poll(w *cadentis.Waker) cadentis.Poll[int] {
	if p := f.sleep.Poll(w); p.Ready {
		return cadentis.Ready(f.value)
	}
	return cadentis.Pending[int]()
}

func sleepThenValue(rt *cadentis.Runtime, d time.Duration, v int) cadentis.Future[int] {
	return &sleepThenValueFuture{sleep: Sleep(rt, d), value: v}
}
