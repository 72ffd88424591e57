// Package cadentistime provides timer-driven futures (sleeping, timeouts,
// retries) built atop a Runtime's reactor, the Go rendition of the original
// cadentis/src/time module.
package cadentistime

import (
	"time"

	"github.com/cadentis/cadentis"
	"github.com/cadentis/cadentis/internal/task"
)

// sleepFuture is grounded on original cadentis/src/time/sleep.rs: it
// lazily registers a single timer with the reactor on its first Poll and
// resolves once the deadline passes. The Rust version cancels its timer on
// Drop; Go has no Drop, so Cancel is exposed explicitly instead and called
// by composers (Timeout) that no longer need the timer once they've
// resolved some other way.
type sleepFuture struct {
	reactor    task.ReactorHandle
	deadline   time.Time
	registered bool
	cancel     func()
	done       bool
}

// Sleep builds a future over rt's reactor that resolves after duration.
func Sleep(rt *cadentis.Runtime, duration time.Duration) cadentis.Future[struct{}] {
	return &sleepFuture{reactor: rt.Reactor(), deadline: time.Now().Add(duration)}
}

func (s *sleepFuture) Poll(w *task.Waker) task.Poll[struct{}] {
	if s.done || !time.Now().Before(s.deadline) {
		s.done = true
		return task.Ready(struct{}{})
	}
	if !s.registered {
		s.registered = true
		s.cancel = s.reactor.SetTimer(s.deadline, w.Clone())
	}
	return task.Pending[struct{}]()
}

// Cancel releases the underlying timer registration, if one was made. It is
// safe to call more than once and safe to call after the sleep has already
// resolved.
func (s *sleepFuture) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}
