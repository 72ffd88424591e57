//go:build linux || darwin

package reactor

import (
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadentis/cadentis/internal/task"
)

type testWakeable struct {
	woken atomic.Bool
	ch    chan struct{}
}

func newTestWakeable() *testWakeable {
	return &testWakeable{ch: make(chan struct{}, 1)}
}

// Push records the wake-up: the idle task behind waker() is re-queued onto
// this injector when its Waker fires.
func (w *testWakeable) Push(task.Runnable) {
	if w.woken.CompareAndSwap(false, true) {
		close(w.ch)
	}
}

// waker returns a Waker whose Wake signals w. task.Wakeable can only be
// implemented inside package task, so the Waker wraps an idle task that
// uses w as its injector.
func (w *testWakeable) waker() *task.Waker {
	tk := task.NewTask[struct{}](task.FutureFunc[struct{}](func(*task.Waker) task.Poll[struct{}] {
		return task.Pending[struct{}]()
	}), w)
	tk.Run()
	return task.NewWaker(tk)
}

func newPipe(t *testing.T) (r, w *os.File) {
	t.Helper()
	rf, wf, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, syscall.SetNonblock(int(rf.Fd()), true))
	require.NoError(t, syscall.SetNonblock(int(wf.Fd()), true))
	return rf, wf
}

func TestReactorFiresTimer(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	go r.Run()
	defer r.Shutdown()

	wk := newTestWakeable()
	cancel := r.SetTimer(time.Now().Add(20*time.Millisecond), wk.waker())
	defer cancel()

	select {
	case <-wk.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

func TestReactorCancelledTimerDoesNotFire(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	go r.Run()
	defer r.Shutdown()

	wk := newTestWakeable()
	cancel := r.SetTimer(time.Now().Add(50*time.Millisecond), wk.waker())
	cancel()

	select {
	case <-wk.ch:
		t.Fatal("cancelled timer fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestReactorOneShotWakesOnReadable(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	go r.Run()
	defer r.Shutdown()

	rf, wf := newPipe(t)
	defer rf.Close()
	defer wf.Close()

	wk := newTestWakeable()
	_, err = r.RegisterOneShot(int(rf.Fd()), task.Interest{Read: true}, wk.waker())
	require.NoError(t, err)

	_, err = wf.Write([]byte("x"))
	require.NoError(t, err)

	select {
	case <-wk.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("one-shot registration never woke")
	}
}

func TestReactorStreamHandleReadWrite(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	go r.Run()
	defer r.Shutdown()

	rf, wf := newPipe(t)
	defer rf.Close()
	defer wf.Close()

	sh, err := r.RegisterStream(int(rf.Fd()))
	require.NoError(t, err)
	defer sh.Close()

	buf := make([]byte, 16)
	wk := newTestWakeable()
	n, ok, err := sh.TryRead(buf, wk.waker())
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 0, n)

	_, werr := wf.Write([]byte("hello"))
	require.NoError(t, werr)

	select {
	case <-wk.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("stream handle never woke on readable")
	}

	n, ok, err = sh.TryRead(buf, newTestWakeable().waker())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", string(buf[:n]))
}
