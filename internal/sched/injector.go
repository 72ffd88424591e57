package sched

import (
	"sync"

	"github.com/cadentis/cadentis/internal/task"
)

// Injector is the scheduler's global run queue. Workers pop their own local
// queue first and fall back to the injector (and then to stealing from
// peers) once it empties, matching the original work_stealing/injector.rs
// ordering.
//
// Unlike localQueue, Injector uses a condition variable rather than plain
// mutual exclusion: it is also where idle workers park, and Push must be
// able to wake exactly the workers that were sleeping on empty work.
type Injector struct {
	mu      sync.Mutex
	cond    sync.Cond
	items   []task.Runnable
	closed  bool
	waiters int
}

// NewInjector creates an empty injector.
func NewInjector() *Injector {
	inj := &Injector{}
	inj.cond.L = &inj.mu
	return inj
}

// Push implements task.Injector.
func (inj *Injector) Push(r task.Runnable) {
	inj.mu.Lock()
	if inj.closed {
		inj.mu.Unlock()
		return
	}
	inj.items = append(inj.items, r)
	inj.mu.Unlock()
	inj.cond.Signal()
}

// pop removes and returns the oldest queued item without blocking.
func (inj *Injector) pop() (task.Runnable, bool) {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	return inj.popLocked()
}

func (inj *Injector) popLocked() (task.Runnable, bool) {
	if len(inj.items) == 0 {
		return nil, false
	}
	r := inj.items[0]
	inj.items[0] = nil
	inj.items = inj.items[1:]
	return r, true
}

// popOrPark removes and returns the oldest queued item, blocking the
// calling worker goroutine until work arrives or Close is called. The
// second return is false only once Close has drained the injector.
func (inj *Injector) popOrPark() (task.Runnable, bool) {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	for {
		if r, ok := inj.popLocked(); ok {
			return r, true
		}
		if inj.closed {
			return nil, false
		}
		inj.waiters++
		inj.cond.Wait()
		inj.waiters--
	}
}

// Close unblocks every worker parked in popOrPark; subsequent Push calls are
// dropped.
func (inj *Injector) Close() {
	inj.mu.Lock()
	inj.closed = true
	inj.mu.Unlock()
	inj.cond.Broadcast()
}

func (inj *Injector) len() int {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	return len(inj.items)
}
