package reactor

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/cadentis/cadentis/internal/slab"
	"github.com/cadentis/cadentis/internal/task"
)

// ErrRegistryClosed is returned by registration calls made after the owning
// reactor has shut down.
var ErrRegistryClosed = errors.New("reactor: registry closed")

// registry tracks every live I/O registration, handing out the small
// integer tokens ReactorHandle.Deregister expects. Grounded on the teacher
// eventloop package's registry.go (an id-indexed table of live handles),
// adapted from its weak-pointer scavenging scheme to slab-backed token
// reuse (internal/slab), since the reactor needs deterministic, immediate
// Deregister rather than GC-driven cleanup.
type registry struct {
	mu      sync.Mutex
	oneshot *slab.Slab[*oneshotEntry]
	streams *slab.Slab[*streamHandle]
	closed  bool
}

func newRegistry() *registry {
	return &registry{
		oneshot: slab.New[*oneshotEntry](),
		streams: slab.New[*streamHandle](),
	}
}

type oneshotEntry struct {
	fd int
}

func interestToIOEvents(in task.Interest) IOEvents {
	var ev IOEvents
	if in.Read {
		ev |= EventRead
	}
	if in.Write {
		ev |= EventWrite
	}
	return ev
}

// registerOneShot arms fd for a single notification: the next time it
// matches interest, waker fires and the registration is torn down, mirroring
// the "ready once, then the future re-issues the syscall" contract async
// runtimes use to avoid spurious wake storms for events nobody consumed yet.
func (r *registry) registerOneShot(poller *FastPoller, fd int, interest task.Interest, waker *task.Waker) (uint64, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, ErrRegistryClosed
	}
	token := r.oneshot.Insert(&oneshotEntry{fd: fd})
	r.mu.Unlock()

	err := poller.RegisterFD(fd, interestToIOEvents(interest), func(IOEvents) {
		r.mu.Lock()
		_, _ = r.oneshot.Remove(token)
		r.mu.Unlock()
		_ = poller.UnregisterFD(fd)
		waker.Wake()
	})
	if err != nil {
		r.mu.Lock()
		_, _ = r.oneshot.Remove(token)
		r.mu.Unlock()
		return 0, err
	}
	return uint64(token), nil
}

// deregisterOneShot tears down a registration before it has fired, e.g. when
// the future owning it is cancelled.
func (r *registry) deregisterOneShot(poller *FastPoller, token uint64) error {
	r.mu.Lock()
	entry, ok := r.oneshot.Remove(int(token))
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return poller.UnregisterFD(entry.fd)
}

// streamHandle is a registered, repeatedly-pollable descriptor (a TCP
// connection, a pipe): unlike oneshotEntry it survives across many
// TryRead/TryWrite calls, re-arming the poller each time a caller observes
// EAGAIN instead of tearing the whole registration down.
type streamHandle struct {
	fd       int
	poller   *FastPoller
	registry *registry
	token    int

	mu     sync.Mutex
	events IOEvents
	rw     *atomic.Pointer[task.Waker]
	ww     *atomic.Pointer[task.Waker]
	closed bool
}

func (r *registry) registerStream(poller *FastPoller, fd int) (*streamHandle, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	r.mu.Unlock()

	h := &streamHandle{
		fd:       fd,
		poller:   poller,
		registry: r,
		rw:       &atomic.Pointer[task.Waker]{},
		ww:       &atomic.Pointer[task.Waker]{},
	}

	r.mu.Lock()
	h.token = r.streams.Insert(h)
	r.mu.Unlock()

	if err := poller.RegisterFD(fd, 0, h.onEvents); err != nil {
		r.mu.Lock()
		_, _ = r.streams.Remove(h.token)
		r.mu.Unlock()
		return nil, err
	}
	return h, nil
}

func (r *registry) deregisterStream(token uint64) error {
	r.mu.Lock()
	_, ok := r.streams.Remove(int(token))
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return nil
}

// onEvents runs on the reactor goroutine (invoked synchronously from
// FastPoller.PollIO's dispatch) and hands any matching interest's waiting
// waker its wake-up, dropping the corresponding bit from the registered
// mask so a level-triggered poller doesn't keep re-firing for a readiness
// nobody is currently waiting on.
func (h *streamHandle) onEvents(ev IOEvents) {
	h.mu.Lock()
	var toWakeRead, toWakeWrite *task.Waker
	if ev&(EventRead|EventError|EventHangup) != 0 {
		toWakeRead = h.rw.Swap(nil)
		h.events &^= EventRead
	}
	if ev&(EventWrite|EventError|EventHangup) != 0 {
		toWakeWrite = h.ww.Swap(nil)
		h.events &^= EventWrite
	}
	events := h.events
	closed := h.closed
	h.mu.Unlock()

	if !closed {
		_ = h.poller.ModifyFD(h.fd, events)
	}
	if toWakeRead != nil {
		toWakeRead.Wake()
	}
	if toWakeWrite != nil {
		toWakeWrite.Wake()
	}
}

func (h *streamHandle) arm(interest IOEvents, waker *task.Waker) {
	h.mu.Lock()
	if interest&EventRead != 0 {
		h.rw.Store(waker)
	}
	if interest&EventWrite != 0 {
		h.ww.Store(waker)
	}
	h.events |= interest
	events := h.events
	closed := h.closed
	h.mu.Unlock()
	if !closed {
		_ = h.poller.ModifyFD(h.fd, events)
	}
}

// TryRead implements task.StreamHandle.
func (h *streamHandle) TryRead(buf []byte, waker *task.Waker) (int, bool, error) {
	n, err := readFD(h.fd, buf)
	if err == nil {
		return n, true, nil
	}
	if isWouldBlock(err) {
		h.arm(EventRead, waker)
		return 0, false, nil
	}
	return 0, false, err
}

// TryWrite implements task.StreamHandle.
func (h *streamHandle) TryWrite(buf []byte, waker *task.Waker) (int, bool, error) {
	n, err := writeFD(h.fd, buf)
	if err == nil {
		return n, true, nil
	}
	if isWouldBlock(err) {
		h.arm(EventWrite, waker)
		return 0, false, nil
	}
	return 0, false, err
}

// Close implements task.StreamHandle.
func (h *streamHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	_ = h.registry.deregisterStream(uint64(h.token))
	_ = h.poller.UnregisterFD(h.fd)
	return closeFD(h.fd)
}
