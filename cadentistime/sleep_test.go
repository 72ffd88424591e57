package cadentistime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadentis/cadentis"
)

func newTestRuntime(t *testing.T) *cadentis.Runtime {
	t.Helper()
	rt, err := cadentis.NewBuilder().WorkerThreads(2).Build()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Shutdown(ctx)
	})
	return rt
}

// TestSleepMeetsDeadline exercises spec.md §8 scenario A: a Sleep(50ms)
// driven through BlockOn must not resolve before its deadline.
func TestSleepMeetsDeadline(t *testing.T) {
	rt := newTestRuntime(t)

	before := time.Now()
	cadentis.BlockOn[struct{}](rt, Sleep(rt, 50*time.Millisecond))
	elapsed := time.Since(before)

	require.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestSleepCancelPreventsWake(t *testing.T) {
	rt := newTestRuntime(t)

	fired := make(chan struct{})
	h := cadentis.Spawn[struct{}](rt, &sleepSideEffectFuture{inner: Sleep(rt, 500*time.Millisecond), done: fired})
	h.Abort()

	select {
	case <-fired:
		t.Fatal("cancelled sleep still fired its side effect")
	case <-time.After(600 * time.Millisecond):
	}
}

// sleepSideEffectFuture wraps Sleep and signals on done once the sleep
// resolves, letting a test observe whether the wrapped sleep ever actually
// completed (as opposed to whether its owning task merely got cancelled).
type sleepSideEffectFuture struct {
	inner cadentis.Future[struct{}]
	done  chan struct{}
}

func (f *sleepSideEffectFuture) Poll(w *cadentis.Waker) cadentis.Poll[struct{}] {
	p := f.inner.Poll(w)
	if p.Ready {
		close(f.done)
	}
	return p
}
