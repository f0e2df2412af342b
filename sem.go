package gos

import "strconv"

// Sem is a counting semaphore with a saturating upper limit and a FIFO
// wait queue.
//
// Signal: the count is increased unless it already reached the limit, in
// which case the signal is ignored; if the count was negative the longest
// waiting thread is released. Wait: the count is decreased and, if it
// becomes negative, the caller is queued and suspended.
//
// A non-negative count means nobody is queued; a count of -n means
// exactly n threads are queued.
//
// The zero value is a semaphore with count 0 and limit 0: it never stores
// a signal but still releases waiters. Use Init or NewSem for anything
// else.
type Sem struct {
	_         noCopy
	g         guard
	count     Semcount
	limit     Semcount
	q         waitq
	destroyed bool
}

// NewSem returns a semaphore initialized with Init(val, limit).
func NewSem(val, limit Semcount) *Sem {
	s := &Sem{}
	s.Init(val, limit)
	return s
}

// Init sets the count to val and the limit to limit. It requires
// 0 <= val <= limit and halts otherwise. Init on a semaphore that still
// has queued waiters strands them; Destroy it first.
func (s *Sem) Init(val, limit Semcount) {
	if val < 0 || limit < val {
		Halt("Sem.Init: invalid value " + strconv.Itoa(int(val)) +
			" for limit " + strconv.Itoa(int(limit)))
	}
	be.lock(&s.g)
	s.count = val
	s.limit = limit
	s.q = waitq{}
	s.destroyed = false
	be.unlock(&s.g)
}

// Wait decrements the count and, if that leaves it negative, waits up to
// timeout milliseconds to be signalled.
//
// It returns nil when a permit was taken, ErrTimeout when the timeout
// elapsed first (the decrement is undone), and ErrDestroyed when the
// semaphore was destroyed before or during the wait. DelayNone never
// suspends the caller; DelayForever never times out.
//
// Waiting with a timeout while holding the system lock halts.
func (s *Sem) Wait(timeout Delay) error {
	if timeout != DelayNone {
		mustNotBlock("Sem.Wait")
	}
	be.lock(&s.g)
	if s.destroyed {
		be.unlock(&s.g)
		return ErrDestroyed
	}
	s.count--
	if s.count >= 0 {
		be.unlock(&s.g)
		return nil
	}
	if timeout == DelayNone {
		s.count++
		be.unlock(&s.g)
		return ErrTimeout
	}
	w := newWaiter(0)
	s.q.push(w)
	be.unlock(&s.g)

	if !be.park(w, timeout) {
		be.lock(&s.g)
		if w.queued {
			// Timed out: leave the queue and undo the decrement.
			s.q.remove(w)
			s.count++
			be.unlock(&s.g)
			return ErrTimeout
		}
		// Released between the timeout and the lock.
		be.unlock(&s.g)
	}
	return w.err()
}

// WaitI takes a permit if one is available, without ever blocking.
// It is the interrupt-level form of Wait(DelayNone) and may be called
// with the system lock held.
func (s *Sem) WaitI() bool {
	be.lock(&s.g)
	ok := !s.destroyed && s.count > 0
	if ok {
		s.count--
	}
	be.unlock(&s.g)
	return ok
}

// Signal increments the count, saturating at the limit, and releases the
// longest waiting thread if there was one. It never blocks or allocates.
func (s *Sem) Signal() {
	s.signal()
}

// SignalI is Signal for interrupt-level code and for callers holding the
// system lock. The two share their state and their semantics; SignalI is
// the entry point documented as legal in that context.
func (s *Sem) SignalI() {
	s.signal()
}

func (s *Sem) signal() {
	be.lock(&s.g)
	if !s.destroyed && s.count < s.limit {
		s.count++
		if s.count <= 0 {
			if w := s.q.pop(); w != nil {
				w.wake(wakeSignaled)
			}
		}
	}
	be.unlock(&s.g)
}

// Counter returns the current count. Under concurrency the value may be
// stale as soon as it is returned; it is meant for diagnostics.
func (s *Sem) Counter() Semcount {
	return s.counter()
}

// CounterI is Counter for interrupt-level code and for callers holding
// the system lock.
func (s *Sem) CounterI() Semcount {
	return s.counter()
}

func (s *Sem) counter() Semcount {
	be.lock(&s.g)
	c := s.count
	be.unlock(&s.g)
	return c
}

// Limit returns the saturation limit set by Init.
func (s *Sem) Limit() Semcount {
	be.lock(&s.g)
	l := s.limit
	be.unlock(&s.g)
	return l
}

// Destroy releases every queued thread with ErrDestroyed and invalidates
// the semaphore: later waits fail with ErrDestroyed and signals are
// ignored until Init is called again.
func (s *Sem) Destroy() {
	be.lock(&s.g)
	s.destroyed = true
	for w := s.q.pop(); w != nil; w = s.q.pop() {
		w.wake(wakeDestroyed)
	}
	s.count = 0
	be.unlock(&s.g)
}
