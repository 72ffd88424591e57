//go:build linux

package reactor

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// wakeup lets any goroutine interrupt the reactor's blocking PollIO call —
// needed so that Push/SetTimer/Register commands arriving while the reactor
// is parked in epoll_wait don't sit unnoticed until the next timeout.
//
// Grounded on the teacher eventloop package's wakeup_linux.go, which used a
// Linux eventfd for the same purpose; rebuilt here as a self-contained type
// (the original's createWakeFd/getWakeReadFd free functions assumed a
// package-level Loop singleton that this runtime doesn't have).
type wakeup struct {
	fd int
}

// newWakeup creates an eventfd-backed wakeup. poller is unused on Linux; it
// exists so the call site is identical across platforms (Windows wraps the
// IOCP handle instead of a file descriptor).
func newWakeup(poller *FastPoller) (*wakeup, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &wakeup{fd: fd}, nil
}

// FD returns the descriptor the reactor should register for readability.
func (w *wakeup) FD() int { return w.fd }

// Wake arms the eventfd so a blocked PollIO returns immediately.
func (w *wakeup) Wake() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(w.fd, buf[:])
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

// Drain consumes the eventfd's counter so the next PollIO blocks again.
func (w *wakeup) Drain() {
	var buf [8]byte
	for {
		if _, err := unix.Read(w.fd, buf[:]); err != nil {
			return
		}
	}
}

func (w *wakeup) Close() error {
	return unix.Close(w.fd)
}
