package task

import "sync/atomic"

// State is a task's lifecycle state, following the transitions described in
// spec.md §2 (task engine) and grounded on the original runtime/task/state.rs
// state machine.
type State uint32

const (
	// StateIdle means the task is not queued and not running; it owns no
	// scheduler slot. A wake-up from this state must enqueue the task.
	StateIdle State = iota
	// StateQueued means the task sits on an injector or local queue, waiting
	// to be picked up by a worker.
	StateQueued
	// StateRunning means a worker is actively polling the task's future.
	StateRunning
	// StateNotified means a wake-up arrived while the task was StateRunning;
	// the worker that finishes the current poll must reschedule it instead
	// of dropping the wake-up on the floor.
	StateNotified
	// StateCompleted is terminal: the future returned Ready, and the result
	// has been stored for JoinHandle retrieval.
	StateCompleted
	// StateCancelled is terminal: the task was aborted before it completed.
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateQueued:
		return "Queued"
	case StateRunning:
		return "Running"
	case StateNotified:
		return "Notified"
	case StateCompleted:
		return "Completed"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// fastState is a lock-free task-state cell, following the same pure-CAS
// shape as the teacher eventloop package's FastState (state.go), minus the
// cache-line padding: tasks are allocated in far greater numbers than event
// loops, so padding every one of them would bloat the arena for no measured
// benefit.
type fastState struct {
	v atomic.Uint32
}

func newFastState(initial State) *fastState {
	s := &fastState{}
	s.v.Store(uint32(initial))
	return s
}

func (s *fastState) Load() State {
	return State(s.v.Load())
}

func (s *fastState) Store(state State) {
	s.v.Store(uint32(state))
}

func (s *fastState) CAS(from, to State) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}

func (s *fastState) IsTerminal() bool {
	switch s.Load() {
	case StateCompleted, StateCancelled:
		return true
	default:
		return false
	}
}
