package sched

import (
	"runtime"

	"github.com/cadentis/cadentis/internal/task"
)

// Worker runs one goroutine that drains its own local queue, then the
// shared injector, then attempts to steal from its peers before parking.
//
// Grounded on the original executor/worker.rs loop ordering (local, then
// injector, then steal-and-retry, then park) and the round-robin victim
// scan of work_stealing/queue.rs.
type Worker struct {
	id       int
	local    *localQueue
	injector *Injector
	peers    []*localQueue
	reactor  task.ReactorHandle
}

func newWorker(id int, injector *Injector, reactor task.ReactorHandle) *Worker {
	return &Worker{
		id:       id,
		local:    newLocalQueue(),
		injector: injector,
		reactor:  reactor,
	}
}

// run is the worker's main loop. It returns once the injector is closed and
// every queue (local and peers') is empty. The worker goroutine stays
// locked to its OS thread for the whole loop.
func (w *Worker) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		r, ok := w.local.pop()
		if !ok {
			r, ok = w.injector.pop()
		}
		if !ok {
			r, ok = w.steal()
		}
		if !ok {
			r, ok = w.injector.popOrPark()
			if !ok {
				return
			}
		}

		ctx := task.Context{
			Injector: w.injector,
			Local:    w.local,
			Reactor:  w.reactor,
			WorkerID: w.id,
		}
		restore := task.EnterContext(ctx)
		r.Run()
		restore()
	}
}

// steal attempts to take one Runnable from a peer's local queue, scanning
// round-robin starting just after this worker's own index so that repeated
// steal attempts across workers don't all converge on the same victim.
func (w *Worker) steal() (task.Runnable, bool) {
	n := len(w.peers)
	for i := 1; i <= n; i++ {
		victim := w.peers[(w.id+i)%n]
		if victim == w.local {
			continue
		}
		if r, ok := victim.steal(); ok {
			return r, true
		}
	}
	return nil, false
}
