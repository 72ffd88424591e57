package sched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadentis/cadentis/internal/task"
)

type countingFuture struct {
	n *atomic.Int64
}

func (c *countingFuture) Poll(w *task.Waker) task.Poll[int] {
	c.n.Add(1)
	return task.Ready(1)
}

func TestExecutorRunsManySpawnedTasks(t *testing.T) {
	ex := NewExecutor(4, nil)
	ex.Start()

	var n atomic.Int64
	handles := make([]*task.JoinHandle[int], 0, 200)
	for i := 0; i < 200; i++ {
		handles = append(handles, Spawn[int](ex, &countingFuture{n: &n}))
	}

	for _, h := range handles {
		res := h.Join()
		require.NoError(t, res.Err)
		require.Equal(t, 1, res.Value)
	}
	require.Equal(t, int64(200), n.Load())

	ex.Shutdown()
}

type nestedSpawnFuture struct {
	done chan struct{}
}

func (f *nestedSpawnFuture) Poll(w *task.Waker) task.Poll[int] {
	h := task.Spawn[int](task.FutureFunc[int](func(w *task.Waker) task.Poll[int] {
		return task.Ready(5)
	}))
	go func() {
		h.Join()
		close(f.done)
	}()
	return task.Ready(1)
}

func TestWorkerInstallsContextForNestedSpawn(t *testing.T) {
	ex := NewExecutor(2, nil)
	ex.Start()
	defer ex.Shutdown()

	done := make(chan struct{})
	h := Spawn[int](ex, &nestedSpawnFuture{done: done})
	res := h.Join()
	require.NoError(t, res.Err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested spawn never completed")
	}
}
