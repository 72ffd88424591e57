package sched

import (
	"sync"

	"github.com/cadentis/cadentis/internal/task"
)

// Executor owns the worker pool: a shared Injector plus one Worker per OS
// thread budget, wired together so each Worker can steal from every other
// Worker's local queue.
//
// Grounded on the original executor/worker.rs WorkerPool: workers are
// started eagerly and run until the injector is closed and drained.
type Executor struct {
	injector *Injector
	workers  []*Worker
	wg       sync.WaitGroup
}

// NewExecutor builds (but does not start) an Executor with numWorkers
// goroutines, each able to register I/O and timers through reactor.
func NewExecutor(numWorkers int, reactor task.ReactorHandle) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	e := &Executor{injector: NewInjector()}
	e.workers = make([]*Worker, numWorkers)
	for i := range e.workers {
		e.workers[i] = newWorker(i, e.injector, reactor)
	}
	peers := make([]*localQueue, numWorkers)
	for i, w := range e.workers {
		peers[i] = w.local
	}
	for _, w := range e.workers {
		w.peers = peers
	}
	return e
}

// Start launches every worker goroutine.
func (e *Executor) Start() {
	for _, w := range e.workers {
		e.wg.Add(1)
		go func(w *Worker) {
			defer e.wg.Done()
			w.run()
		}(w)
	}
}

// Injector returns the executor's shared run queue, the entry point for
// scheduling a task from outside any worker goroutine (i.e. before any
// Context has been installed).
func (e *Executor) Injector() *Injector {
	return e.injector
}

// Spawn schedules future directly on the shared injector and returns a
// handle to its outcome. Unlike task.Spawn, this does not require a Context
// to already be installed on the calling goroutine — it is the entry point
// used by the runtime facade's own Spawn/BlockOn.
func Spawn[T any](e *Executor, future task.Future[T]) *task.JoinHandle[T] {
	return task.SpawnOn[T](future, e.injector)
}

// Shutdown closes the injector, letting every worker drain its queues and
// exit, then waits for all worker goroutines to return.
func (e *Executor) Shutdown() {
	e.injector.Close()
	e.wg.Wait()
}
