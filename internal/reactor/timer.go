package reactor

import (
	"container/heap"
	"sync/atomic"
	"time"

	"github.com/cadentis/cadentis/internal/task"
)

// timerEntry is one armed deadline. cancelled is a shared flag rather than
// a heap-removal: popping an arbitrary element out of a container/heap is
// O(n), and cancellations are common (every timeout racing a completed
// operation cancels its timer), so firing checks the flag instead and
// drops cancelled entries for free as they reach the front of the heap.
//
// Grounded on the original reactor/timer.rs TimerEntry/TimerWheel design,
// translated from its generation-counter scheme to a single shared
// *atomic.Bool since Go's GC removes the need to reuse slot generations.
type timerEntry struct {
	deadline  time.Time
	seq       uint64 // tie-breaker so heap order is stable for equal deadlines
	waker     *task.Waker
	cancelled *atomic.Bool
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// timers owns the reactor's min-heap of armed deadlines. It is not
// concurrency-safe; the reactor only touches it from its own loop
// goroutine. SetTimer is routed through the reactor's command queue, and
// cancellation only sets an entry's atomic flag, which the loop reads when
// the entry reaches the front of the heap.
type timers struct {
	heap timerHeap
	seq  uint64
}

func newTimers() *timers {
	t := &timers{}
	heap.Init(&t.heap)
	return t
}

// add arms a new deadline and returns its cancellation flag; setting the
// flag is safe from any goroutine at any time (including after the timer
// has already fired).
func (t *timers) add(deadline time.Time, waker *task.Waker) (cancelFlag *atomic.Bool) {
	flag := &atomic.Bool{}
	t.seq++
	heap.Push(&t.heap, &timerEntry{deadline: deadline, seq: t.seq, waker: waker, cancelled: flag})
	return flag
}

// nextDeadline reports the next non-cancelled deadline, discarding
// cancelled entries from the front of the heap as it goes.
func (t *timers) nextDeadline() (time.Time, bool) {
	for t.heap.Len() > 0 {
		top := t.heap[0]
		if top.cancelled.Load() {
			heap.Pop(&t.heap)
			continue
		}
		return top.deadline, true
	}
	return time.Time{}, false
}

// fireExpired wakes every non-cancelled timer whose deadline has passed as
// of now, removing them from the heap.
func (t *timers) fireExpired(now time.Time) {
	for t.heap.Len() > 0 {
		top := t.heap[0]
		if top.cancelled.Load() {
			heap.Pop(&t.heap)
			continue
		}
		if top.deadline.After(now) {
			return
		}
		heap.Pop(&t.heap)
		top.waker.Wake()
	}
}
