package task

// Wakeable is implemented by anything a [Waker] can notify. *Task[T]
// implements it for every T, so a Waker never needs to be generic itself —
// this is the Go substitute for the raw-waker vtable in the original
// runtime/task/waker.rs: Rust needed a hand-rolled vtable to erase the
// concrete future type behind a trait object; Go's interfaces give us type
// erasure for free, and the garbage collector removes the need for the
// manual clone/drop refcounting the vtable otherwise performs.
type Wakeable interface {
	wake()
}

// Waker is handed to a [Future] on every Poll call. Calling Wake (or
// WakeByRef) schedules the owning task to be polled again.
//
// A Waker is safe to retain past the Poll call that produced it — store it,
// pass it to another goroutine, call Wake from a callback once progress is
// possible. Concurrent calls to Wake from multiple goroutines are safe: the
// task's wake transition is a CAS loop, so concurrent callers enqueue the
// task at most once until it runs again.
type Waker struct {
	target Wakeable
}

// NewWaker builds a Waker bound to target.
func NewWaker(target Wakeable) *Waker {
	return &Waker{target: target}
}

// Wake notifies the owning task that it should be polled again.
func (w *Waker) Wake() {
	w.target.wake()
}

// WakeByRef is identical to Wake in this implementation; it exists to mirror
// the original API's distinction between a consuming wake and a by-reference
// one; Go has no ownership to consume, so both simply invoke the same
// notification.
func (w *Waker) WakeByRef() {
	w.target.wake()
}

// Clone returns a Waker usable independently of w, safe to hand to another
// goroutine or store past this call's lifetime.
func (w *Waker) Clone() *Waker {
	return &Waker{target: w.target}
}
