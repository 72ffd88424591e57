package task

import (
	"runtime"
	"sync"
	"time"
)

// Runnable is anything a scheduler can run to completion of a single poll
// step. *Task[T] implements it for every T.
type Runnable interface {
	// Run drives one poll step. It returns true if the task is in a
	// terminal state (StateCompleted or StateCancelled) when the call
	// returns.
	Run() bool
}

// Injector is the scheduler's global run queue, as seen from inside a
// running task (spec.md §3 "work-stealing scheduler"). Concrete
// implementations live in the sched package; this interface exists so that
// task has no import dependency on sched.
type Injector interface {
	Push(r Runnable)
}

// LocalQueue is a single worker's private run queue. Spawning from inside a
// task prefers the local queue of the worker currently running it, matching
// the original scheduler's locality bias (work_stealing/queue.rs).
type LocalQueue interface {
	PushLocal(r Runnable)
}

// Interest describes which readiness a one-shot I/O future is waiting for.
type Interest struct {
	Read  bool
	Write bool
}

// ReactorHandle is the narrow surface a Future needs to register interest
// with the single-threaded reactor. Concrete implementations live in the
// reactor package; as with Injector, the interface lives here so task has
// no import dependency on reactor.
type ReactorHandle interface {
	// RegisterOneShot arms fd for the given interest and arranges for waker
	// to be woken the next time it becomes ready. The registration tears
	// itself down when it fires; the returned token is only needed to
	// Deregister it before then (for example on cancellation).
	RegisterOneShot(fd int, interest Interest, waker *Waker) (token uint64, err error)
	// Deregister releases a one-shot registration by the token
	// RegisterOneShot returned. Stream registrations are released through
	// StreamHandle.Close.
	Deregister(token uint64) error
	// RegisterStream arms fd for a long-lived, repeatedly-read/written
	// stream and returns a handle for it.
	RegisterStream(fd int) (StreamHandle, error)
	// SetTimer arms waker to be woken at deadline and returns a function
	// that cancels the timer if called before it fires.
	SetTimer(deadline time.Time, waker *Waker) (cancel func())
}

// StreamHandle is a registered, repeatedly-pollable I/O stream (a TCP
// connection, a pipe) as seen by asyncnet/asyncfs-style Future
// implementations.
type StreamHandle interface {
	// TryRead attempts a non-blocking read into buf. If no data is
	// available, it registers waker and returns (0, false, nil).
	TryRead(buf []byte, waker *Waker) (n int, ok bool, err error)
	// TryWrite attempts a non-blocking write of buf. If the socket buffer is
	// full, it registers waker and returns (0, false, nil).
	TryWrite(buf []byte, waker *Waker) (n int, ok bool, err error)
	// Close releases the underlying descriptor and its reactor registration.
	Close() error
}

// Context is the set of scheduler/reactor handles a task body needs to call
// Spawn, YieldNow, or register I/O. It is the Go substitute for the
// original runtime's thread_local! CURRENT_* globals (runtime/context.rs):
// Rust pins those to the OS thread; Go has no such thread affinity for
// goroutines, so the context is instead keyed by the running goroutine's
// numeric ID, looked up the same way the teacher eventloop package
// identifies its own loop goroutine (see isLoopThread/getGoroutineID in
// loop.go).
type Context struct {
	Injector Injector
	Local    LocalQueue
	Reactor  ReactorHandle
	WorkerID int
}

var (
	contextMu sync.Mutex
	contexts  = map[uint64]Context{}
)

// EnterContext installs ctx as the current goroutine's context and returns a
// function that restores whatever was installed before (or clears it, if
// nothing was). Workers call this immediately before running a task and
// call the returned restore once the task's poll step returns.
func EnterContext(ctx Context) (restore func()) {
	gid := goroutineID()

	contextMu.Lock()
	prev, had := contexts[gid]
	contexts[gid] = ctx
	contextMu.Unlock()

	return func() {
		contextMu.Lock()
		if had {
			contexts[gid] = prev
		} else {
			delete(contexts, gid)
		}
		contextMu.Unlock()
	}
}

// CurrentContext returns the context installed for the calling goroutine, if
// any. Code running outside a worker goroutine (ok == false) cannot Spawn or
// register I/O directly.
func CurrentContext() (ctx Context, ok bool) {
	gid := goroutineID()
	contextMu.Lock()
	ctx, ok = contexts[gid]
	contextMu.Unlock()
	return ctx, ok
}

// GoroutineID exposes goroutineID to other packages in this module (the
// runtime facade uses it to reject nested BlockOn calls from the same
// goroutine).
func GoroutineID() uint64 {
	return goroutineID()
}

// goroutineID returns the calling goroutine's numeric ID, parsed out of a
// runtime.Stack trace. Grounded on the teacher eventloop package's
// getGoroutineID (loop.go): runtime.Stack's first line is always
// "goroutine <id> [<state>]:", so the digits immediately following the
// "goroutine " prefix are the ID.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
