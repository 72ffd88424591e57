package cadentis

import "github.com/cadentis/cadentis/internal/task"

// joinArm tracks one constituent future of a Join composer: once it
// resolves it is never polled again, matching spec.md §4.5's "poll
// sub-futures in declaration order on every wake" rule without re-driving
// futures that have already produced their value.
type joinArm[T any] struct {
	future task.Future[T]
	done   bool
	value  T
}

func (a *joinArm[T]) poll(w *task.Waker) bool {
	if a.done {
		return true
	}
	if p := a.future.Poll(w); p.Ready {
		a.done, a.value = true, p.Value
		return true
	}
	return false
}

// Join2Result holds the paired outcome of Join2.
type Join2Result[A, B any] struct {
	A A
	B B
}

type join2Future[A, B any] struct {
	a joinArm[A]
	b joinArm[B]
}

func (f *join2Future[A, B]) Poll(w *task.Waker) task.Poll[Join2Result[A, B]] {
	da := f.a.poll(w)
	db := f.b.poll(w)
	if da && db {
		return task.Ready(Join2Result[A, B]{A: f.a.value, B: f.b.value})
	}
	return task.Pending[Join2Result[A, B]]()
}

// Join2 resolves once both fa and fb have resolved, yielding both values
// together (spec.md §4.5, fixed-arity tuple join since Go generics have no
// variadic type parameters).
func Join2[A, B any](fa Future[A], fb Future[B]) Future[Join2Result[A, B]] {
	return &join2Future[A, B]{a: joinArm[A]{future: fa}, b: joinArm[B]{future: fb}}
}

// Join3Result holds the outcome of Join3.
type Join3Result[A, B, C any] struct {
	A A
	B B
	C C
}

type join3Future[A, B, C any] struct {
	a joinArm[A]
	b joinArm[B]
	c joinArm[C]
}

func (f *join3Future[A, B, C]) Poll(w *task.Waker) task.Poll[Join3Result[A, B, C]] {
	da := f.a.poll(w)
	db := f.b.poll(w)
	dc := f.c.poll(w)
	if da && db && dc {
		return task.Ready(Join3Result[A, B, C]{A: f.a.value, B: f.b.value, C: f.c.value})
	}
	return task.Pending[Join3Result[A, B, C]]()
}

// Join3 resolves once all three arguments have resolved.
func Join3[A, B, C any](fa Future[A], fb Future[B], fc Future[C]) Future[Join3Result[A, B, C]] {
	return &join3Future[A, B, C]{a: joinArm[A]{future: fa}, b: joinArm[B]{future: fb}, c: joinArm[C]{future: fc}}
}

// Join4Result holds the outcome of Join4.
type Join4Result[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}

type join4Future[A, B, C, D any] struct {
	a joinArm[A]
	b joinArm[B]
	c joinArm[C]
	d joinArm[D]
}

func (f *join4Future[A, B, C, D]) Poll(w *task.Waker) task.Poll[Join4Result[A, B, C, D]] {
	da := f.a.poll(w)
	db := f.b.poll(w)
	dc := f.c.poll(w)
	dd := f.d.poll(w)
	if da && db && dc && dd {
		return task.Ready(Join4Result[A, B, C, D]{A: f.a.value, B: f.b.value, C: f.c.value, D: f.d.value})
	}
	return task.Pending[Join4Result[A, B, C, D]]()
}

// Join4 resolves once all four arguments have resolved.
func Join4[A, B, C, D any](fa Future[A], fb Future[B], fc Future[C], fd Future[D]) Future[Join4Result[A, B, C, D]] {
	return &join4Future[A, B, C, D]{a: joinArm[A]{future: fa}, b: joinArm[B]{future: fb}, c: joinArm[C]{future: fc}, d: joinArm[D]{future: fd}}
}

// Join5Result holds the outcome of Join5.
type Join5Result[A, B, C, D, E any] struct {
	A A
	B B
	C C
	D D
	E E
}

type join5Future[A, B, C, D, E any] struct {
	a joinArm[A]
	b joinArm[B]
	c joinArm[C]
	d joinArm[D]
	e joinArm[E]
}

func (f *join5Future[A, B, C, D, E]) Poll(w *task.Waker) task.Poll[Join5Result[A, B, C, D, E]] {
	da := f.a.poll(w)
	db := f.b.poll(w)
	dc := f.c.poll(w)
	dd := f.d.poll(w)
	de := f.e.poll(w)
	if da && db && dc && dd && de {
		return task.Ready(Join5Result[A, B, C, D, E]{A: f.a.value, B: f.b.value, C: f.c.value, D: f.d.value, E: f.e.value})
	}
	return task.Pending[Join5Result[A, B, C, D, E]]()
}

// Join5 resolves once all five arguments have resolved.
func Join5[A, B, C, D, E any](fa Future[A], fb Future[B], fc Future[C], fd Future[D], fe Future[E]) Future[Join5Result[A, B, C, D, E]] {
	return &join5Future[A, B, C, D, E]{a: joinArm[A]{future: fa}, b: joinArm[B]{future: fb}, c: joinArm[C]{future: fc}, d: joinArm[D]{future: fd}, e: joinArm[E]{future: fe}}
}

// joinSliceFuture is the homogeneous N-ary join, analogous to the teacher
// promise.go's JS.All: every future shares type T, so arity is a runtime
// slice length instead of a fixed type-parameter count.
type joinSliceFuture[T any] struct {
	arms []joinArm[T]
}

func (f *joinSliceFuture[T]) Poll(w *task.Waker) task.Poll[[]T] {
	allDone := true
	for i := range f.arms {
		if !f.arms[i].poll(w) {
			allDone = false
		}
	}
	if !allDone {
		return task.Pending[[]T]()
	}
	out := make([]T, len(f.arms))
	for i := range f.arms {
		out[i] = f.arms[i].value
	}
	return task.Ready(out)
}

// JoinSlice resolves once every future in fs has resolved, yielding their
// values in the same order as fs (spec.md §4.5 [SUPPLEMENT]).
func JoinSlice[T any](fs []Future[T]) Future[[]T] {
	arms := make([]joinArm[T], len(fs))
	for i, f := range fs {
		arms[i] = joinArm[T]{future: f}
	}
	return &joinSliceFuture[T]{arms: arms}
}

// select2Future polls fa/fb in declaration order each wake; the first to
// resolve has its handler applied and the result returned, exactly once.
// Once one arm wins, the other is never polled again, satisfying spec.md
// §4.5's "unselected arms dropped cleanly".
type select2Future[A, B, R any] struct {
	fa      Future[A]
	fb      Future[B]
	onA     func(A) R
	onB     func(B) R
	settled bool
	value   R
}

func (f *select2Future[A, B, R]) Poll(w *task.Waker) task.Poll[R] {
	if f.settled {
		return task.Ready(f.value)
	}
	if p := f.fa.Poll(w); p.Ready {
		f.settled = true
		f.value = f.onA(p.Value)
		return task.Ready(f.value)
	}
	if p := f.fb.Poll(w); p.Ready {
		f.settled = true
		f.value = f.onB(p.Value)
		return task.Ready(f.value)
	}
	return task.Pending[R]()
}

// Select2 resolves with whichever of fa/fb completes first, mapped through
// the matching handler (spec.md §4.5).
func Select2[A, B, R any](fa Future[A], onA func(A) R, fb Future[B], onB func(B) R) Future[R] {
	return &select2Future[A, B, R]{fa: fa, fb: fb, onA: onA, onB: onB}
}

type select3Future[A, B, C, R any] struct {
	fa      Future[A]
	fb      Future[B]
	fc      Future[C]
	onA     func(A) R
	onB     func(B) R
	onC     func(C) R
	settled bool
	value   R
}

func (f *select3Future[A, B, C, R]) Poll(w *task.Waker) task.Poll[R] {
	if f.settled {
		return task.Ready(f.value)
	}
	if p := f.fa.Poll(w); p.Ready {
		f.settled, f.value = true, f.onA(p.Value)
		return task.Ready(f.value)
	}
	if p := f.fb.Poll(w); p.Ready {
		f.settled, f.value = true, f.onB(p.Value)
		return task.Ready(f.value)
	}
	if p := f.fc.Poll(w); p.Ready {
		f.settled, f.value = true, f.onC(p.Value)
		return task.Ready(f.value)
	}
	return task.Pending[R]()
}

// Select3 resolves with whichever of fa/fb/fc completes first.
func Select3[A, B, C, R any](fa Future[A], onA func(A) R, fb Future[B], onB func(B) R, fc Future[C], onC func(C) R) Future[R] {
	return &select3Future[A, B, C, R]{fa: fa, fb: fb, fc: fc, onA: onA, onB: onB, onC: onC}
}

type select4Future[A, B, C, D, R any] struct {
	fa      Future[A]
	fb      Future[B]
	fc      Future[C]
	fd      Future[D]
	onA     func(A) R
	onB     func(B) R
	onC     func(C) R
	onD     func(D) R
	settled bool
	value   R
}

func (f *select4Future[A, B, C, D, R]) Poll(w *task.Waker) task.Poll[R] {
	if f.settled {
		return task.Ready(f.value)
	}
	if p := f.fa.Poll(w); p.Ready {
		f.settled, f.value = true, f.onA(p.Value)
		return task.Ready(f.value)
	}
	if p := f.fb.Poll(w); p.Ready {
		f.settled, f.value = true, f.onB(p.Value)
		return task.Ready(f.value)
	}
	if p := f.fc.Poll(w); p.Ready {
		f.settled, f.value = true, f.onC(p.Value)
		return task.Ready(f.value)
	}
	if p := f.fd.Poll(w); p.Ready {
		f.settled, f.value = true, f.onD(p.Value)
		return task.Ready(f.value)
	}
	return task.Pending[R]()
}

// Select4 resolves with whichever of fa/fb/fc/fd completes first.
func Select4[A, B, C, D, R any](fa Future[A], onA func(A) R, fb Future[B], onB func(B) R, fc Future[C], onC func(C) R, fd Future[D], onD func(D) R) Future[R] {
	return &select4Future[A, B, C, D, R]{fa: fa, fb: fb, fc: fc, fd: fd, onA: onA, onB: onB, onC: onC, onD: onD}
}

type select5Future[A, B, C, D, E, R any] struct {
	fa      Future[A]
	fb      Future[B]
	fc      Future[C]
	fd      Future[D]
	fe      Future[E]
	onA     func(A) R
	onB     func(B) R
	onC     func(C) R
	onD     func(D) R
	onE     func(E) R
	settled bool
	value   R
}

func (f *select5Future[A, B, C, D, E, R]) Poll(w *task.Waker) task.Poll[R] {
	if f.settled {
		return task.Ready(f.value)
	}
	if p := f.fa.Poll(w); p.Ready {
		f.settled, f.value = true, f.onA(p.Value)
		return task.Ready(f.value)
	}
	if p := f.fb.Poll(w); p.Ready {
		f.settled, f.value = true, f.onB(p.Value)
		return task.Ready(f.value)
	}
	if p := f.fc.Poll(w); p.Ready {
		f.settled, f.value = true, f.onC(p.Value)
		return task.Ready(f.value)
	}
	if p := f.fd.Poll(w); p.Ready {
		f.settled, f.value = true, f.onD(p.Value)
		return task.Ready(f.value)
	}
	if p := f.fe.Poll(w); p.Ready {
		f.settled, f.value = true, f.onE(p.Value)
		return task.Ready(f.value)
	}
	return task.Pending[R]()
}

// Select5 resolves with whichever of fa/fb/fc/fd/fe completes first.
func Select5[A, B, C, D, E, R any](fa Future[A], onA func(A) R, fb Future[B], onB func(B) R, fc Future[C], onC func(C) R, fd Future[D], onD func(D) R, fe Future[E], onE func(E) R) Future[R] {
	return &select5Future[A, B, C, D, E, R]{fa: fa, fb: fb, fc: fc, fd: fd, fe: fe, onA: onA, onB: onB, onC: onC, onD: onD, onE: onE}
}

// SelectSlice resolves as soon as any one future in fs completes, returning
// that value and its index in fs. The remaining futures are never polled
// again (spec.md §4.5 [SUPPLEMENT], analogous to teacher promise.go's
// JS.Race for a homogeneous slice).
type SelectSliceResult[T any] struct {
	Index int
	Value T
}

type selectSliceFuture[T any] struct {
	fs      []Future[T]
	settled bool
	result  SelectSliceResult[T]
}

func (f *selectSliceFuture[T]) Poll(w *task.Waker) task.Poll[SelectSliceResult[T]] {
	if f.settled {
		return task.Ready(f.result)
	}
	for i, sub := range f.fs {
		if p := sub.Poll(w); p.Ready {
			f.settled = true
			f.result = SelectSliceResult[T]{Index: i, Value: p.Value}
			return task.Ready(f.result)
		}
	}
	return task.Pending[SelectSliceResult[T]]()
}

// SelectSlice returns a future resolving with the value and index of
// whichever future in fs completes first.
func SelectSlice[T any](fs []Future[T]) Future[SelectSliceResult[T]] {
	return &selectSliceFuture[T]{fs: fs}
}

// JoinSetAllSettled waits for every task currently in the set to reach a
// terminal state (success, error, or cancellation) and returns all of their
// Results, regardless of whether any failed. It never aborts siblings the
// way RaceN does.
//
// [SUPPLEMENT] modeled directly on the teacher promise.go's AllSettled:
// where JoinAll simply accumulates whatever JoinNext produces (including
// error Results), this name exists so a caller reads the "wait for all,
// ignore failures" intent explicitly instead of re-deriving it from
// JoinAll's behavior.
func (s *JoinSet[T]) JoinSetAllSettled(rt *Runtime) []Result[T] {
	return s.JoinAll(rt)
}

// SelectOK resolves with the value of the first future in fs whose Result
// carries no error, ignoring (but not aborting) any that fail first. If
// every future in fs fails, it resolves to the last failing Result it
// observed; an empty fs resolves immediately to a zero Result.
//
// [SUPPLEMENT] modeled on the teacher promise.go's Any: unlike SelectSlice,
// a failing arm does not settle the composite future, so slower-but-
// successful futures still get a chance to win.
func SelectOK[T any](fs []Future[Result[T]]) Future[Result[T]] {
	return &selectOKFuture[T]{arms: fs}
}

type selectOKFuture[T any] struct {
	arms    []Future[Result[T]]
	done    []bool
	settled bool
	value   Result[T]
}

func (f *selectOKFuture[T]) Poll(w *task.Waker) task.Poll[Result[T]] {
	if f.settled {
		return task.Ready(f.value)
	}
	if f.done == nil {
		f.done = make([]bool, len(f.arms))
	}
	allDone := true
	for i, arm := range f.arms {
		if f.done[i] {
			continue
		}
		p := arm.Poll(w)
		if !p.Ready {
			allDone = false
			continue
		}
		f.done[i] = true
		if p.Value.Err == nil {
			f.settled = true
			f.value = p.Value
			return task.Ready(f.value)
		}
		f.value = p.Value
	}
	if allDone {
		f.settled = true
		return task.Ready(f.value)
	}
	return task.Pending[Result[T]]()
}
