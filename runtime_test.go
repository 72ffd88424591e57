package cadentis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadentis/cadentis/internal/task"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := NewBuilder().WorkerThreads(2).Build()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Shutdown(ctx)
	})
	return rt
}

type constFuture[T any] struct{ v T }

func (c constFuture[T]) Poll(*task.Waker) Poll[T] { return Ready(c.v) }

func TestSpawnAndJoin(t *testing.T) {
	rt := newTestRuntime(t)
	h := Spawn[int](rt, constFuture[int]{v: 7})
	res := h.Join()
	require.NoError(t, res.Err)
	require.Equal(t, 7, res.Value)
}

func TestBlockOnReturnsValue(t *testing.T) {
	rt := newTestRuntime(t)
	v := BlockOn[string](rt, constFuture[string]{v: "hello"})
	require.Equal(t, "hello", v)
}

// TestBlockOnNestedPanics exercises the reentrancy guard directly: Spawn
// always hands a future off to a worker goroutine, so genuinely nesting
// BlockOn calls through a Future's Poll would run on a different goroutine
// and never collide. The guard instead protects the literal case of a
// goroutine calling BlockOn again on itself before the first call has
// returned, which this test simulates by pre-registering the calling
// goroutine the same way an in-flight BlockOn call would.
func TestBlockOnNestedPanics(t *testing.T) {
	rt := newTestRuntime(t)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		gid := task.GoroutineID()
		rt.blockOnMu.Lock()
		rt.blockOnGs[gid] = struct{}{}
		rt.blockOnMu.Unlock()
		defer func() {
			rt.blockOnMu.Lock()
			delete(rt.blockOnGs, gid)
			rt.blockOnMu.Unlock()
		}()

		require.PanicsWithValue(t, ErrNestedBlockOn, func() {
			BlockOn[int](rt, constFuture[int]{v: 1})
		})
	}()
	wg.Wait()
}

func TestSpawnAfterShutdownPanics(t *testing.T) {
	rt := newTestRuntime(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, rt.Shutdown(ctx))

	require.PanicsWithValue(t, ErrRuntimeShutdown, func() {
		Spawn[int](rt, constFuture[int]{v: 1})
	})
}
