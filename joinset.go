package cadentis

import (
	"sync"

	"github.com/cadentis/cadentis/internal/task"
)

// JoinSet tracks a dynamic collection of spawned tasks that share a single
// result type, letting a caller wait for them to finish in completion
// order rather than declaration order (spec.md §4.5, grounded on the
// original task/set.rs JoinSet).
//
// A JoinSet is not safe for concurrent use from multiple goroutines; it is
// meant to be owned by the single goroutine driving it (typically inside a
// BlockOn-style loop or a worker task), matching the original's single-
// owner JoinSet.
type JoinSet[T any] struct {
	mu      sync.Mutex
	handles []*JoinHandle[T]
}

// NewJoinSet returns an empty JoinSet.
func NewJoinSet[T any]() *JoinSet[T] {
	return &JoinSet[T]{}
}

// Spawn schedules future on rt and adds the resulting handle to the set.
func (s *JoinSet[T]) Spawn(rt *Runtime, future Future[T]) {
	h := Spawn(rt, future)
	s.mu.Lock()
	s.handles = append(s.handles, h)
	s.mu.Unlock()
}

// SpawnFunc is a convenience for spawning a future built lazily, mirroring
// tokio's JoinSet::spawn pattern of taking an async block rather than a
// pre-built future.
func (s *JoinSet[T]) SpawnFunc(rt *Runtime, factory func() Future[T]) {
	s.Spawn(rt, factory())
}

// Len reports how many tasks are still tracked (not yet reaped by JoinNext).
func (s *JoinSet[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// joinSetPoll implements Future[Result[T]] over "whichever handle in the set
// finishes first", polling every outstanding handle on each wake exactly
// the way the original JoinSet's FuturesUnordered drives its member set.
type joinSetPoll[T any] struct {
	set *JoinSet[T]
}

func (p *joinSetPoll[T]) Poll(w *task.Waker) task.Poll[Result[T]] {
	p.set.mu.Lock()
	defer p.set.mu.Unlock()
	for i, h := range p.set.handles {
		if poll := h.Poll(w); poll.Ready {
			p.set.handles = append(p.set.handles[:i], p.set.handles[i+1:]...)
			return task.Ready(poll.Value)
		}
	}
	return task.Pending[Result[T]]()
}

// JoinNext returns a future resolving to the Result of whichever remaining
// task in the set finishes next, removing it from the set. It has no
// "set is empty" outcome: on an empty set the returned future never
// resolves, so callers check JoinSet.Len() > 0 before awaiting it.
func (s *JoinSet[T]) JoinNext() Future[Result[T]] {
	return &joinSetPoll[T]{set: s}
}

// AbortAll cancels every task still tracked by the set and then removes
// them all from it, leaving Len() == 0.
func (s *JoinSet[T]) AbortAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.handles {
		h.Abort()
	}
	s.handles = nil
}

// JoinAll blocks until every task currently in the set has completed,
// returning their results in completion order (not spawn order), grounded
// on the original JoinSet's common "drain everything" usage pattern.
func (s *JoinSet[T]) JoinAll(rt *Runtime) []Result[T] {
	var out []Result[T]
	for s.Len() > 0 {
		out = append(out, BlockOn(rt, s.JoinNext()))
	}
	return out
}

// RaceN blocks until the first of the set's tasks completes and returns
// its Result, aborting the rest. It leaves the set empty.
func (s *JoinSet[T]) RaceN(rt *Runtime) Result[T] {
	r := BlockOn(rt, s.JoinNext())
	s.AbortAll()
	return r
}

// Race spawns every future in fs onto rt, waits for the first to complete,
// aborts the rest, and returns its Result. It is a convenience wrapper
// around JoinSet for the common "race this batch of futures" case (spec.md
// §4.5).
func Race[T any](rt *Runtime, fs []Future[T]) Result[T] {
	set := NewJoinSet[T]()
	for _, f := range fs {
		set.Spawn(rt, f)
	}
	return set.RaceN(rt)
}
