//go:build darwin

package reactor

import "syscall"

// wakeup is the Darwin self-pipe equivalent of the Linux eventfd wakeup; see
// wakeup_linux.go for the rationale. kqueue has no eventfd primitive, so a
// nonblocking pipe stands in for it, as the teacher eventloop package's
// wakeup_darwin.go also did.
type wakeup struct {
	r, w int
}

func newWakeup(poller *FastPoller) (*wakeup, error) {
	var fds [2]int
	if err := syscall.Pipe(fds[:]); err != nil {
		return nil, err
	}
	syscall.CloseOnExec(fds[0])
	syscall.CloseOnExec(fds[1])
	if err := syscall.SetNonblock(fds[0], true); err != nil {
		syscall.Close(fds[0])
		syscall.Close(fds[1])
		return nil, err
	}
	if err := syscall.SetNonblock(fds[1], true); err != nil {
		syscall.Close(fds[0])
		syscall.Close(fds[1])
		return nil, err
	}
	return &wakeup{r: fds[0], w: fds[1]}, nil
}

// FD returns the descriptor the reactor should register for readability.
func (w *wakeup) FD() int { return w.r }

// Wake writes a single byte so a blocked PollIO returns immediately.
func (w *wakeup) Wake() error {
	var buf [1]byte
	_, err := syscall.Write(w.w, buf[:])
	if err == syscall.EAGAIN {
		return nil
	}
	return err
}

// Drain empties the pipe so the next PollIO blocks again.
func (w *wakeup) Drain() {
	var buf [64]byte
	for {
		if _, err := syscall.Read(w.r, buf[:]); err != nil {
			return
		}
	}
}

func (w *wakeup) Close() error {
	_ = syscall.Close(w.w)
	return syscall.Close(w.r)
}
