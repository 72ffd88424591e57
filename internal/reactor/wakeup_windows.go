//go:build windows

package reactor

import "golang.org/x/sys/windows"

// wakeup on Windows has no descriptor to register: IOCP is woken directly
// with PostQueuedCompletionStatus, the standard pattern the teacher
// eventloop package's wakeup_windows.go also used (there, as a free
// function taking the raw handle; here, bound to the FastPoller that owns
// the IOCP handle so the reactor's call site matches Linux/Darwin).
type wakeup struct {
	iocp windows.Handle
}

func newWakeup(poller *FastPoller) (*wakeup, error) {
	return &wakeup{iocp: poller.iocp}, nil
}

// FD reports -1: Windows wake-up is not descriptor-based, so the reactor
// must not attempt to register it with RegisterFD.
func (w *wakeup) FD() int { return -1 }

func (w *wakeup) Wake() error {
	return windows.PostQueuedCompletionStatus(w.iocp, 0, 0, nil)
}

// Drain is a no-op: GetQueuedCompletionStatus already consumed the posted
// completion by the time PollIO observed it.
func (w *wakeup) Drain() {}

func (w *wakeup) Close() error { return nil }
