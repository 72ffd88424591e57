package cadentistime

import (
	"time"

	"github.com/cadentis/cadentis"
	"github.com/cadentis/cadentis/internal/task"
)

// retryFuture drives factory() to completion, and on failure waits interval
// before building and driving a fresh attempt, up to attempts total tries.
// Grounded on original cadentis/src/tools/retry.rs's Retry future, which
// alternates between polling the current attempt and polling an interval
// delay between attempts; the Go rendition builds that delay directly from
// sleepFuture instead of a second boxed future type, since Go's Future[T]
// interface already gives it the dynamic dispatch Rust needed Pin<Box<dyn
// Future>> for.
type retryFuture[T any] struct {
	rt        *cadentis.Runtime
	factory   func() cadentis.Future[cadentis.Result[T]]
	interval  time.Duration
	remaining int

	current *attemptState[T]
	sleep   *sleepFuture
}

type attemptState[T any] struct {
	future cadentis.Future[cadentis.Result[T]]
}

// Retry calls factory to build a new attempt, polls it to completion, and,
// if it returns an error Result, waits interval and tries again, up to
// attempts total calls to factory. It returns the first successful Result,
// or the last failing Result once attempts are exhausted.
//
// [SUPPLEMENT] exercises spec.md §8 scenario F (retry-with-backoff).
func Retry[T any](rt *cadentis.Runtime, attempts int, interval time.Duration, factory func() cadentis.Future[cadentis.Result[T]]) cadentis.Future[cadentis.Result[T]] {
	if attempts < 1 {
		attempts = 1
	}
	return &retryFuture[T]{
		rt:        rt,
		factory:   factory,
		interval:  interval,
		remaining: attempts,
	}
}

func (r *retryFuture[T]) Poll(w *task.Waker) task.Poll[cadentis.Result[T]] {
	for {
		if r.sleep != nil {
			if p := r.sleep.Poll(w); !p.Ready {
				return task.Pending[cadentis.Result[T]]()
			}
			r.sleep = nil
		}

		if r.current == nil {
			r.remaining--
			r.current = &attemptState[T]{future: r.factory()}
		}

		p := r.current.future.Poll(w)
		if !p.Ready {
			return task.Pending[cadentis.Result[T]]()
		}

		r.current = nil
		if p.Value.Err == nil || r.remaining <= 0 {
			return task.Ready(p.Value)
		}

		r.sleep = &sleepFuture{reactor: r.rt.Reactor(), deadline: time.Now().Add(r.interval)}
	}
}
