// Package sched implements the work-stealing scheduler described in
// spec.md §3: a shared injector queue plus one local deque per worker,
// workers draining their own deque before stealing from peers.
//
// Grounded on two sources: the mutex-guarded deque shape (push/pop from the
// owner end, steal from the front) comes from the standalone work-stealing
// example in the retrieved pack
// (other_examples/c83662fd_wyf-ACCEPT-eth2030__pkg-core-work_stealing.go.go);
// the park/unpark and round-robin victim-selection semantics come from the
// original runtime's work_stealing/{injector,queue}.rs and executor/worker.rs.
package sched

import (
	"sync"

	"github.com/cadentis/cadentis/internal/task"
)

// localQueue is a single worker's private double-ended run queue: the owner
// pushes and pops from the back (LIFO, favoring whatever was just spawned,
// matching cache locality), while thieves steal from the front (FIFO,
// favoring the oldest work so a thief doesn't re-steal what the owner is
// about to run next).
type localQueue struct {
	mu    sync.Mutex
	items []task.Runnable
}

func newLocalQueue() *localQueue {
	return &localQueue{}
}

// PushLocal implements task.LocalQueue.
func (q *localQueue) PushLocal(r task.Runnable) {
	q.mu.Lock()
	q.items = append(q.items, r)
	q.mu.Unlock()
}

// pop removes and returns the most recently pushed item.
func (q *localQueue) pop() (task.Runnable, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	if n == 0 {
		return nil, false
	}
	r := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	return r, true
}

// steal removes and returns the oldest item, for use by a different worker.
func (q *localQueue) steal() (task.Runnable, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	r := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return r, true
}

func (q *localQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
