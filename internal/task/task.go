package task

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Result is the Go stand-in for the original runtime's Result<T, JoinError>:
// a future's completion value paired with an error, carried as the single
// generic payload of a [Task]'s output so JoinHandle.Poll has one thing to
// return instead of two.
type Result[T any] struct {
	Value T
	Err   error
}

// JoinError reports why a task did not produce its value normally.
type JoinError struct {
	Cancelled bool
	Panic     any
}

func (e *JoinError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("task panicked: %v", e.Panic)
	}
	return "task was cancelled"
}

// Task owns a Future's execution state: the atomic lifecycle state machine
// (spec.md §2), the home injector it reschedules itself onto when woken
// while idle, and the slot its result is stored in once it completes.
//
// Grounded on the original runtime/task/core.rs Task<F>: the state
// transitions (wake() from Idle pushes to the injector; wake() from Running
// defers to Notified so the worker currently polling reschedules instead of
// a racing double-enqueue) are a direct port of that file's CAS loop.
type Task[T any] struct {
	state    *fastState
	future   Future[T]
	injector Injector
	waker    *Waker

	result     Result[T]
	done       chan struct{}
	finishOnce sync.Once
	joinWaker  atomic.Pointer[Waker]
}

// NewTask wraps future as a schedulable Task bound to injector: the queue
// its waker pushes it onto whenever it transitions from idle to queued.
func NewTask[T any](future Future[T], injector Injector) *Task[T] {
	t := &Task[T]{
		state:    newFastState(StateQueued),
		future:   future,
		injector: injector,
		done:     make(chan struct{}),
	}
	t.waker = NewWaker(t)
	return t
}

// Run polls the task's future exactly once, handling the Running/Notified
// race the same way the original implementation does: a wake-up delivered
// while a poll is in flight must not be lost, and must not cause the task to
// be scheduled on two workers at once.
func (t *Task[T]) Run() (completed bool) {
	if !t.state.CAS(StateQueued, StateRunning) {
		// Already running, completed, or cancelled elsewhere; nothing to do.
		return t.state.IsTerminal()
	}

	defer func() {
		if r := recover(); r != nil {
			t.complete(Result[T]{Err: &JoinError{Panic: r}})
			completed = true
		}
	}()

	poll := t.future.Poll(t.waker)
	if poll.Ready {
		t.complete(Result[T]{Value: poll.Value})
		return true
	}

	// The poll returned Pending. If a wake arrived while we were running,
	// StateNotified was set instead of StateIdle, and we must requeue
	// ourselves rather than going to sleep with a missed wake-up.
	if t.state.CAS(StateRunning, StateIdle) {
		return false
	}
	// The CAS above lost either to a wake-up (StateNotified) or to an Abort
	// that moved the task to StateCancelled during the poll. Only the former
	// is requeued; a cancelled task stays terminal and is not polled again.
	if t.state.CAS(StateNotified, StateQueued) {
		t.injector.Push(t)
		return false
	}
	return t.state.IsTerminal()
}

// wake implements Wakeable. Called from the task's own Waker.
func (t *Task[T]) wake() {
	for {
		switch t.state.Load() {
		case StateIdle:
			if t.state.CAS(StateIdle, StateQueued) {
				t.injector.Push(t)
				return
			}
		case StateRunning:
			if t.state.CAS(StateRunning, StateNotified) {
				return
			}
		case StateQueued, StateNotified, StateCompleted, StateCancelled:
			// Already queued/notified/terminal: nothing to do.
			return
		}
	}
}

// Abort cancels the task. It is a no-op once the task has already reached a
// terminal state.
func (t *Task[T]) Abort() {
	for {
		switch s := t.state.Load(); s {
		case StateCompleted, StateCancelled:
			return
		default:
			if t.state.CAS(s, StateCancelled) {
				t.finish(Result[T]{Err: &JoinError{Cancelled: true}})
				return
			}
		}
	}
}

func (t *Task[T]) complete(r Result[T]) {
	for {
		s := t.state.Load()
		if s == StateCompleted || s == StateCancelled {
			return
		}
		if t.state.CAS(s, StateCompleted) {
			t.finish(r)
			return
		}
	}
}

func (t *Task[T]) finish(r Result[T]) {
	t.finishOnce.Do(func() {
		t.result = r
		close(t.done)
		if w := t.joinWaker.Load(); w != nil {
			w.Wake()
		}
	})
}

// Done reports whether the task has reached a terminal state.
func (t *Task[T]) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// PollJoin implements the JoinHandle side of polling: it registers w to be
// woken on completion and returns the result once available.
//
// Grounded on the original runtime/task/handle.rs JoinHandle::poll, which
// re-checks completion after registering its waker to close the race
// between "observed not done" and "waker stored" — without the second
// check, a completion landing in that window would wake nobody.
func (t *Task[T]) PollJoin(w *Waker) Poll[Result[T]] {
	if t.Done() {
		return Ready(t.result)
	}
	t.joinWaker.Store(w)
	if t.Done() {
		return Ready(t.result)
	}
	return Pending[Result[T]]()
}

// State returns the task's current lifecycle state.
func (t *Task[T]) State() State {
	return t.state.Load()
}
