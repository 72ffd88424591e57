package reactor

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cadentis/cadentis/internal/task"
)

// reactorCmd is a unit of work that must run on the reactor's own loop
// goroutine because it touches the timer heap, which is not safe for
// concurrent access from arbitrary caller goroutines.
type reactorCmd func(r *Reactor)

// Reactor is the runtime's single-threaded I/O and timer driver (spec.md
// §4). It owns one platform poller, pinned to a single OS thread via
// runtime.LockOSThread the same way the teacher eventloop package pins its
// own Loop, a timer min-heap, and an I/O registry.
//
// Unlike the executor's workers, a Reactor is not a pool: exactly one
// instance drives all timers and I/O for a Runtime, matching the original
// runtime/reactor/future.rs design of a single reactor thread shared by
// every worker.
type Reactor struct {
	poller   *FastPoller
	wake     *wakeup
	timers   *timers
	registry *registry

	cmdMu sync.Mutex
	cmds  []reactorCmd

	stopped atomic.Bool
	done    chan struct{}
}

// New builds and initializes a Reactor. It does not start the loop; call
// Run in a dedicated goroutine.
func New() (*Reactor, error) {
	poller := &FastPoller{}
	if err := poller.Init(); err != nil {
		return nil, err
	}
	wk, err := newWakeup(poller)
	if err != nil {
		_ = poller.Close()
		return nil, err
	}
	r := &Reactor{
		poller:   poller,
		wake:     wk,
		timers:   newTimers(),
		registry: newRegistry(),
		done:     make(chan struct{}),
	}
	if fd := wk.FD(); fd >= 0 {
		if err := poller.RegisterFD(fd, EventRead, func(IOEvents) {
			r.wake.Drain()
		}); err != nil {
			_ = wk.Close()
			_ = poller.Close()
			return nil, err
		}
	}
	return r, nil
}

// Run drives the reactor loop until Shutdown is called. It pins itself to
// its OS thread for the duration, following the same rationale as the
// teacher's own loop goroutine: several platform poller syscalls
// (kqueue/epoll registration races, IOCP semantics) are easiest to reason
// about with a single, stable calling thread.
func (r *Reactor) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.done)

	for {
		r.drainCmds()

		if r.stopped.Load() {
			return
		}

		timeoutMs := -1
		if deadline, ok := r.timers.nextDeadline(); ok {
			d := time.Until(deadline)
			if d <= 0 {
				timeoutMs = 0
			} else {
				timeoutMs = int(d / time.Millisecond)
				if timeoutMs == 0 {
					timeoutMs = 1
				}
			}
		}

		_, _ = r.poller.PollIO(timeoutMs)
		r.timers.fireExpired(time.Now())
	}
}

// Shutdown stops the reactor loop and releases its poller and wakeup
// resources. It blocks until Run has returned.
func (r *Reactor) Shutdown() {
	r.stopped.Store(true)
	_ = r.wake.Wake()
	<-r.done
	_ = r.wake.Close()
	_ = r.poller.Close()
}

func (r *Reactor) pushCmd(c reactorCmd) {
	r.cmdMu.Lock()
	r.cmds = append(r.cmds, c)
	r.cmdMu.Unlock()
	_ = r.wake.Wake()
}

func (r *Reactor) drainCmds() {
	r.cmdMu.Lock()
	cmds := r.cmds
	r.cmds = nil
	r.cmdMu.Unlock()
	for _, c := range cmds {
		c(r)
	}
}

// SetTimer implements task.ReactorHandle. The heap mutation is deferred to
// the reactor's own goroutine via the command queue; the calling goroutine
// blocks only long enough for that to run once (not for the timer itself
// to elapse).
func (r *Reactor) SetTimer(deadline time.Time, waker *task.Waker) func() {
	result := make(chan *atomic.Bool, 1)
	r.pushCmd(func(rr *Reactor) {
		result <- rr.timers.add(deadline, waker)
	})
	flag := <-result
	return func() { flag.Store(true) }
}

// RegisterOneShot implements task.ReactorHandle.
func (r *Reactor) RegisterOneShot(fd int, interest task.Interest, waker *task.Waker) (uint64, error) {
	return r.registry.registerOneShot(r.poller, fd, interest, waker)
}

// Deregister implements task.ReactorHandle. It tears down a one-shot
// registration that has not fired yet, identified by its token; a token
// that is not currently registered is ignored. Stream registrations are
// released through their own Close.
func (r *Reactor) Deregister(token uint64) error {
	return r.registry.deregisterOneShot(r.poller, token)
}

// RegisterStream implements task.ReactorHandle.
func (r *Reactor) RegisterStream(fd int) (task.StreamHandle, error) {
	h, err := r.registry.registerStream(r.poller, fd)
	if err != nil {
		return nil, err
	}
	return h, nil
}
