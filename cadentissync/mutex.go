// Package cadentissync provides synchronization primitives that suspend a
// task rather than blocking its worker thread, the Go rendition of the
// original cadentis/src/sync module.
package cadentissync

import (
	"sync"

	"github.com/cadentis/cadentis"
	"github.com/cadentis/cadentis/internal/task"
)

// Mutex is an async mutual-exclusion lock: a task that cannot acquire it is
// suspended (its Poll returns Pending and registers a waker) rather than
// parking its OS thread, which would starve every other task sharing that
// worker. Grounded on original cadentis/src/sync/mutex.rs.
type Mutex[T any] struct {
	locked  bool
	waiters []*task.Waker

	mu   sync.Mutex
	data T
}

// NewMutex wraps value in a Mutex, initially unlocked.
func NewMutex[T any](value T) *Mutex[T] {
	return &Mutex[T]{data: value}
}

// Lock returns a future resolving to a MutexGuard once the mutex has been
// acquired. It does not block the calling worker: if the mutex is held,
// the current task's waker is queued and the task is suspended. Each Unlock
// wakes the most recently queued waiter (LIFO), which then retries the
// acquisition.
func (m *Mutex[T]) Lock() cadentis.Future[*MutexGuard[T]] {
	return &lockFuture[T]{mutex: m}
}

type lockFuture[T any] struct {
	mutex *Mutex[T]
}

func (f *lockFuture[T]) Poll(w *task.Waker) task.Poll[*MutexGuard[T]] {
	m := f.mutex
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.mu.Unlock()
		return task.Ready(&MutexGuard[T]{mutex: m})
	}
	m.waiters = append(m.waiters, w.Clone())
	m.mu.Unlock()
	return task.Pending[*MutexGuard[T]]()
}

// MutexGuard grants access to the data a Mutex protects. The lock is
// released by calling Unlock explicitly (Go has no destructors to hook a
// Drop-style automatic release into, unlike original
// cadentis/src/sync/mutex.rs's MutexGuard).
type MutexGuard[T any] struct {
	mutex    *Mutex[T]
	released bool
}

// Value returns the protected data. Callers must not retain it past Unlock.
func (g *MutexGuard[T]) Value() *T {
	return &g.mutex.data
}

// Unlock releases the mutex and wakes one waiting task, if any, mirroring
// the original MutexGuard::drop: releasing simply clears the lock and
// nudges a waiter to retry acquiring it, rather than handing ownership
// directly to a chosen successor (any task, not just the woken one, may
// win the next acquisition race).
func (g *MutexGuard[T]) Unlock() {
	if g.released {
		return
	}
	g.released = true

	m := g.mutex
	m.mu.Lock()
	m.locked = false
	var next *task.Waker
	if len(m.waiters) > 0 {
		next = m.waiters[len(m.waiters)-1]
		m.waiters = m.waiters[:len(m.waiters)-1]
	}
	m.mu.Unlock()

	if next != nil {
		next.Wake()
	}
}
