package gos

import "sync/atomic"

// Wake reasons stored in waiter.result.
const (
	wakeNone uint32 = iota
	wakeSignaled
	wakeDestroyed
)

// waiter is the record of one goroutine blocked on a Sem or a Mutex.
// All fields except result are guarded by the owning object's guard.
type waiter struct {
	next, prev *waiter
	queued     bool
	// gid is the goroutine that parks on this record. A Mutex hands
	// ownership to it directly on Exit.
	gid    int64
	result atomic.Uint32
	p      parker
}

func newWaiter(gid int64) *waiter {
	w := &waiter{gid: gid}
	be.initParker(&w.p)
	return w
}

// wake records why w was released and makes it runnable.
// The caller holds the guard of the object w was queued on, and has
// already unlinked w.
func (w *waiter) wake(reason uint32) {
	w.result.Store(reason)
	be.unpark(w)
}

func (w *waiter) err() error {
	switch w.result.Load() {
	case wakeSignaled:
		return nil
	case wakeDestroyed:
		return ErrDestroyed
	}
	return ErrTimeout
}

// waitq is an intrusive FIFO list of waiters. Release order is arrival
// order; nothing ever jumps the queue.
type waitq struct {
	head, tail *waiter
	n          int
}

func (q *waitq) push(w *waiter) {
	w.next = nil
	w.prev = q.tail
	if q.tail == nil {
		q.head = w
	} else {
		q.tail.next = w
	}
	q.tail = w
	w.queued = true
	q.n++
}

// pop unlinks and returns the longest waiting record, or nil.
func (q *waitq) pop() *waiter {
	w := q.head
	if w != nil {
		q.remove(w)
	}
	return w
}

// remove unlinks w, which must be queued on q.
func (q *waitq) remove(w *waiter) {
	if w.prev == nil {
		q.head = w.next
	} else {
		w.prev.next = w.next
	}
	if w.next == nil {
		q.tail = w.prev
	} else {
		w.next.prev = w.prev
	}
	w.next, w.prev = nil, nil
	w.queued = false
	q.n--
}

func (q *waitq) len() int {
	return q.n
}
