package task

// JoinHandle observes a spawned task's outcome. It implements
// Future[Result[T]] so it can itself be polled/awaited from inside another
// task (spec.md §2 "JoinHandle"), alongside a goroutine-blocking Join for
// use from outside the scheduler.
type JoinHandle[T any] struct {
	task *Task[T]
}

func newJoinHandle[T any](t *Task[T]) *JoinHandle[T] {
	return &JoinHandle[T]{task: t}
}

// Poll implements Future[Result[T]].
func (h *JoinHandle[T]) Poll(w *Waker) Poll[Result[T]] {
	return h.task.PollJoin(w)
}

// Abort cancels the underlying task. If it has already completed, Abort is
// a no-op.
func (h *JoinHandle[T]) Abort() {
	h.task.Abort()
}

// Done reports whether the task has reached a terminal state.
func (h *JoinHandle[T]) Done() bool {
	return h.task.Done()
}

// Join blocks the calling goroutine until the task completes. It is meant
// for use from outside the scheduler (e.g. a worker parking on a future
// produced by a sibling system, or tests); code running inside a task
// should Poll/await the handle instead of blocking a worker goroutine.
func (h *JoinHandle[T]) Join() Result[T] {
	<-h.task.done
	return h.task.result
}

// Spawn schedules future to run as an independent task through the calling
// goroutine's installed Context, pushing it onto the Context's local queue
// when one is set and onto its injector otherwise, and returns a handle to
// its outcome.
//
// Spawn must be called from a goroutine with an installed Context (i.e.
// from inside a running task, or from code that has received one via
// EnterContext); calling it otherwise panics, mirroring the original
// runtime's "Spawn outside of a runtime context" panic in
// runtime/task/core.rs.
func Spawn[T any](future Future[T]) *JoinHandle[T] {
	ctx, ok := CurrentContext()
	if !ok {
		panic("task: Spawn called with no runtime context installed on this goroutine")
	}
	t := NewTask[T](future, ctx.Injector)
	if ctx.Local != nil {
		ctx.Local.PushLocal(t)
	} else {
		ctx.Injector.Push(t)
	}
	return newJoinHandle(t)
}

// SpawnOn schedules future directly onto injector, without requiring a
// Context to be installed on the calling goroutine. It is the entry point
// used by the scheduler's own external-facing Spawn (called from outside any
// worker goroutine, e.g. the runtime facade's Spawn/BlockOn).
func SpawnOn[T any](future Future[T], injector Injector) *JoinHandle[T] {
	t := NewTask[T](future, injector)
	injector.Push(t)
	return newJoinHandle(t)
}

// yieldFuture completes on its second poll, giving the scheduler a chance
// to run other queued tasks in between — the Go equivalent of the original
// runtime/yield_now.rs.
type yieldFuture struct {
	polledOnce bool
}

func (y *yieldFuture) Poll(w *Waker) Poll[struct{}] {
	if y.polledOnce {
		return Ready(struct{}{})
	}
	y.polledOnce = true
	w.WakeByRef()
	return Pending[struct{}]()
}

// YieldNow returns a future that resolves after giving other runnable tasks
// one opportunity to run.
func YieldNow() Future[struct{}] {
	return &yieldFuture{}
}
