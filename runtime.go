// Package cadentis is an asynchronous task runtime: a fixed pool of
// OS-thread-backed workers executing user-supplied Future[T] values, driven
// against a single reactor for timers and non-blocking I/O.
package cadentis

import (
	"context"
	"sync"

	"github.com/cadentis/cadentis/internal/logging"
	"github.com/cadentis/cadentis/internal/reactor"
	"github.com/cadentis/cadentis/internal/sched"
	"github.com/cadentis/cadentis/internal/task"
)

// Future is the root package's re-export of task.Future, so callers never
// need to import internal/task directly.
type Future[T any] = task.Future[T]

// Poll is the root package's re-export of task.Poll.
type Poll[T any] = task.Poll[T]

// Result is the root package's re-export of task.Result.
type Result[T any] = task.Result[T]

// Ready and Pending re-export the task package's Poll constructors.
func Ready[T any](v T) Poll[T] { return task.Ready(v) }
func Pending[T any]() Poll[T]  { return task.Pending[T]() }

// Waker re-exports task.Waker, the handle a Future stores to be woken once
// the condition it is waiting on becomes true. Futures never construct a
// Waker themselves (task.Wakeable's wake method is unexported, implemented
// only by *task.Task[T]); they receive one as the argument to Poll and
// either call it or retain it via Clone.
type Waker = task.Waker

// Runtime owns one reactor and one fixed-size worker pool (spec.md §2). It
// is the Go rendition of the original runtime/core.rs "Runtime" handle.
type Runtime struct {
	executor *sched.Executor
	reactor  *reactor.Reactor
	log      *logging.Logger

	shutdownOnce sync.Once
	shutdown     chan struct{}

	blockOnMu sync.Mutex
	blockOnGs map[uint64]struct{}
}

// Reactor exposes the runtime's single timer/I/O driver as the narrow
// task.ReactorHandle interface, the entry point the cadentistime/cadentisnet/
// cadentisfs primitive packages use to register timers and descriptors
// without importing internal/reactor directly.
func (rt *Runtime) Reactor() task.ReactorHandle {
	return rt.reactor
}

func newRuntime(opts runtimeOptions) (*Runtime, error) {
	r, err := reactor.New()
	if err != nil {
		return nil, err
	}

	logger := logging.New(opts.logWriter, opts.logLevel)

	rt := &Runtime{
		executor:  sched.NewExecutor(opts.workerThreads, r),
		reactor:   r,
		log:       logger,
		shutdown:  make(chan struct{}),
		blockOnGs: make(map[uint64]struct{}),
	}

	go r.Run()
	rt.executor.Start()

	rt.log.Info().Int64(`workers`, int64(opts.workerThreads)).Log(`runtime started`)

	return rt, nil
}

// Spawn schedules future to run as an independent task on the runtime's
// executor and returns a handle to its outcome. Unlike task.Spawn, it may
// be called from any goroutine, not just one running inside a worker
// (spec.md §6).
//
// Spawn panics with ErrRuntimeShutdown if rt.Shutdown has already been
// called: a task pushed onto a closed injector would never run, leaving
// its JoinHandle's Join/Poll blocked forever, so the runtime rejects the
// call outright rather than handing back a handle that can never resolve.
func Spawn[T any](rt *Runtime, f Future[T]) *JoinHandle[T] {
	select {
	case <-rt.shutdown:
		panic(ErrRuntimeShutdown)
	default:
	}
	return wrapJoinHandle(sched.Spawn[T](rt.executor, f))
}

// BlockOn runs f to completion on the calling goroutine's behalf, blocking
// until it resolves, and returns its value. It schedules f onto the
// runtime's executor exactly like Spawn and then joins it, giving external
// (non-worker) code a synchronous entry point into the runtime.
//
// Nested BlockOn calls from the same goroutine panic with ErrNestedBlockOn:
// a goroutine blocked inside BlockOn cannot itself make forward progress
// polling a second future without a dedicated worker slot, so rather than
// deadlock silently the runtime rejects the call outright (spec.md §9 Open
// Question 1).
func BlockOn[T any](rt *Runtime, f Future[T]) T {
	gid := task.GoroutineID()

	rt.blockOnMu.Lock()
	if _, active := rt.blockOnGs[gid]; active {
		rt.blockOnMu.Unlock()
		panic(ErrNestedBlockOn)
	}
	rt.blockOnGs[gid] = struct{}{}
	rt.blockOnMu.Unlock()

	defer func() {
		rt.blockOnMu.Lock()
		delete(rt.blockOnGs, gid)
		rt.blockOnMu.Unlock()
	}()

	handle := Spawn(rt, f)
	result := handle.Join()
	if result.Err != nil {
		panic(result.Err)
	}
	return result.Value
}

// Shutdown stops accepting new work, drains the worker pool and reactor,
// and releases their resources. It returns ctx.Err() if ctx is cancelled
// before shutdown completes.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	var err error
	rt.shutdownOnce.Do(func() {
		close(rt.shutdown)
		done := make(chan struct{})
		go func() {
			rt.executor.Shutdown()
			rt.reactor.Shutdown()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
		rt.log.Info().Log(`runtime shut down`)
	})
	return err
}
