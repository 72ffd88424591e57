package task

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fifoInjector is a minimal single-threaded run queue used to drive tasks
// to completion in tests without pulling in the sched package.
type fifoInjector struct {
	q []Runnable
}

func (f *fifoInjector) Push(r Runnable) {
	f.q = append(f.q, r)
}

func (f *fifoInjector) PushLocal(r Runnable) {
	f.Push(r)
}

// drain runs every queued Runnable to exhaustion, including ones pushed as a
// side effect of running earlier ones.
func (f *fifoInjector) drain() {
	for len(f.q) > 0 {
		r := f.q[0]
		f.q = f.q[1:]
		r.Run()
	}
}

type pollNTimes struct {
	remaining int
	value     int
}

func (p *pollNTimes) Poll(w *Waker) Poll[int] {
	if p.remaining <= 0 {
		return Ready(p.value)
	}
	p.remaining--
	w.WakeByRef()
	return Pending[int]()
}

func TestTaskRunsToCompletion(t *testing.T) {
	inj := &fifoInjector{}
	tk := NewTask[int](&pollNTimes{remaining: 3, value: 42}, inj)
	inj.Push(tk)
	inj.drain()

	require.True(t, tk.Done())
	require.Equal(t, StateCompleted, tk.State())
	require.Equal(t, 42, tk.result.Value)
}

func TestJoinHandlePollReceivesResult(t *testing.T) {
	inj := &fifoInjector{}
	tk := NewTask[string](FutureFunc[string](func(w *Waker) Poll[string] {
		return Ready("done")
	}), inj)
	h := newJoinHandle(tk)

	poll := h.Poll(NewWaker(&noopWakeable{}))
	require.False(t, poll.Ready)

	inj.Push(tk)
	inj.drain()

	poll = h.Poll(NewWaker(&noopWakeable{}))
	require.True(t, poll.Ready)
	require.Equal(t, "done", poll.Value.Value)
	require.NoError(t, poll.Value.Err)
}

func TestJoinWakesRegisteredWaker(t *testing.T) {
	inj := &fifoInjector{}
	tk := NewTask[int](&pollNTimes{remaining: 1, value: 7}, inj)
	h := newJoinHandle(tk)

	woken := &countingWakeable{}
	poll := h.Poll(NewWaker(woken))
	require.False(t, poll.Ready)
	require.Equal(t, 0, woken.count)

	inj.Push(tk)
	inj.drain()

	require.Equal(t, 1, woken.count)
	poll = h.Poll(NewWaker(&noopWakeable{}))
	require.True(t, poll.Ready)
	require.Equal(t, 7, poll.Value.Value)
}

func TestAbortCancelsPendingTask(t *testing.T) {
	inj := &fifoInjector{}
	tk := NewTask[int](&pollNTimes{remaining: 100, value: 0}, inj)
	h := newJoinHandle(tk)

	h.Abort()
	require.True(t, tk.Done())
	require.Equal(t, StateCancelled, tk.State())

	res := h.Join()
	require.Error(t, res.Err)
	var je *JoinError
	require.ErrorAs(t, res.Err, &je)
	require.True(t, je.Cancelled)
}

func TestSpawnPanicsWithoutContext(t *testing.T) {
	require.Panics(t, func() {
		Spawn[int](FutureFunc[int](func(w *Waker) Poll[int] { return Ready(0) }))
	})
}

func TestSpawnUsesInstalledContext(t *testing.T) {
	inj := &fifoInjector{}
	restore := EnterContext(Context{Injector: inj})
	defer restore()

	h := Spawn[int](FutureFunc[int](func(w *Waker) Poll[int] { return Ready(9) }))
	inj.drain()

	res := h.Join()
	require.NoError(t, res.Err)
	require.Equal(t, 9, res.Value)
}

func TestYieldNowResolvesAfterOneReschedule(t *testing.T) {
	inj := &fifoInjector{}
	tk := NewTask[struct{}](YieldNow(), inj)
	inj.Push(tk)
	inj.drain()
	require.True(t, tk.Done())
}

type noopWakeable struct{}

func (n *noopWakeable) wake() {}

type countingWakeable struct {
	count int
}

func (c *countingWakeable) wake() {
	c.count++
}
