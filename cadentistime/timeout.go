package cadentistime

import (
	"time"

	"github.com/cadentis/cadentis"
	"github.com/cadentis/cadentis/internal/task"
)

// timeoutFuture polls the wrapped future first and only falls back to the
// deadline sleep if it has not yet resolved, exactly mirroring original
// cadentis/src/time/timeout.rs's poll order (inner future, then its own
// Sleep).
type timeoutFuture[T any] struct {
	future task.Future[T]
	sleep  *sleepFuture
}

// Timeout races f against duration: if f resolves first, its value is
// returned wrapped in a successful Result; if duration elapses first, a
// Result carrying ErrTimedOut is returned instead and f is
// left running (callers that need f aborted should pair Timeout with a
// JoinHandle they Abort themselves, since a bare Future has no cancel
// hook in this model).
func Timeout[T any](rt *cadentis.Runtime, duration time.Duration, f cadentis.Future[T]) cadentis.Future[cadentis.Result[T]] {
	return &timeoutFuture[T]{
		future: f,
		sleep:  &sleepFuture{reactor: rt.Reactor(), deadline: time.Now().Add(duration)},
	}
}

func (t *timeoutFuture[T]) Poll(w *task.Waker) task.Poll[cadentis.Result[T]] {
	if p := t.future.Poll(w); p.Ready {
		t.sleep.Cancel()
		return task.Ready(cadentis.Result[T]{Value: p.Value})
	}
	if p := t.sleep.Poll(w); p.Ready {
		var zero T
		return task.Ready(cadentis.Result[T]{Value: zero, Err: ErrTimedOut})
	}
	return task.Pending[cadentis.Result[T]]()
}
