package gos

import (
	"sync/atomic"
)

// ticketLock is a fair, FIFO spin lock.
//
// The native backend guards the state of every Sem and Mutex with one.
// Those sections touch a counter and a few list pointers, never block and
// never allocate, which is the case a ticket lock is made for: strict
// arrival order (so the fairness of the wait queues is not undone by the
// guard itself) at the price of spinning.
//
//   - lock(): takes a ticket, spins/sleeps until serving == ticket.
//   - unlock(): advances serving, letting the next ticket holder in.
//
// The zero value is an unlocked lock.
type ticketLock struct {
	_       noCopy
	next    atomic.Uint32
	serving atomic.Uint32
}

func (m *ticketLock) lock() {
	my := m.next.Add(1) - 1
	var spins int
	for {
		if m.serving.Load() == my {
			return
		}
		delay(&spins)
	}
}

func (m *ticketLock) unlock() {
	m.serving.Add(1)
}
