// Package task implements the engine half of the runtime: the deferred
// computation abstraction ([Future]), the task state machine, the waker
// adapter, and the goroutine-local execution context that lets spawned
// code find its way back to the scheduler and reactor.
//
// Grounded on the original Cadentis sources (runtime/task/core.rs,
// runtime/task/waker.rs, runtime/task/handle.rs, runtime/context.rs) and on
// the teacher eventloop package's FastState (state.go) for the atomic state
// machine shape.
package task

// Poll is the result of polling a [Future]: either a completed Value, or a
// request to be polled again later (once Ready is false, Value is the zero
// value of T and must not be used).
type Poll[T any] struct {
	Value T
	Ready bool
}

// Ready constructs a completed Poll.
func Ready[T any](v T) Poll[T] {
	return Poll[T]{Value: v, Ready: true}
}

// Pending constructs an incomplete Poll.
func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

// Future is the Go rendition of "deferred computation" from spec.md §1/GLOSSARY:
// a value that, when polled, either completes or registers a wake-up
// callback (via w) to be invoked once progress may be possible.
//
// Implementations may retain w, or a copy from [Waker.Clone], past the Poll
// call in order to call Wake once progress is possible (for example from a
// reactor callback on another goroutine).
type Future[T any] interface {
	Poll(w *Waker) Poll[T]
}

// FutureFunc adapts a poll function into a Future, following the same
// shape as Go's http.HandlerFunc adapter idiom.
type FutureFunc[T any] func(w *Waker) Poll[T]

func (f FutureFunc[T]) Poll(w *Waker) Poll[T] { return f(w) }
