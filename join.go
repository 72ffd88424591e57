package cadentis

import "github.com/cadentis/cadentis/internal/task"

// JoinHandle observes a Spawn'd task's outcome from outside the scheduler.
// It is a thin root-package wrapper around task.JoinHandle so callers never
// need to import internal/task directly (spec.md §6).
type JoinHandle[T any] struct {
	inner *task.JoinHandle[T]
}

func wrapJoinHandle[T any](h *task.JoinHandle[T]) *JoinHandle[T] {
	return &JoinHandle[T]{inner: h}
}

// Poll implements Future[Result[T]], letting a JoinHandle itself be awaited
// from inside another task.
func (h *JoinHandle[T]) Poll(w *task.Waker) Poll[Result[T]] {
	return h.inner.Poll(w)
}

// Abort cancels the underlying task. A no-op if it already completed.
func (h *JoinHandle[T]) Abort() {
	h.inner.Abort()
}

// Done reports whether the task has reached a terminal state.
func (h *JoinHandle[T]) Done() bool {
	return h.inner.Done()
}

// Join blocks the calling goroutine until the task completes and returns
// its outcome.
func (h *JoinHandle[T]) Join() Result[T] {
	return h.inner.Join()
}

// YieldNow returns a future that resolves after giving other runnable
// tasks one opportunity to run, for use from inside a task body spawned via
// task.Spawn (spec.md §6).
func YieldNow() Future[struct{}] {
	return task.YieldNow()
}
