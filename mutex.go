package gos

import (
	"sync"
	"sync/atomic"

	"github.com/llxisdsh/gos/internal/goid"
)

// mutexDestroyed is the owner value of a destroyed Mutex. It is never a
// goroutine id, so the lock-free acquire path cannot succeed on it.
const mutexDestroyed = -1

// Mutex is a non-recursive mutual exclusion lock with FIFO hand-off.
//
// Unlike a semaphore with limit 1 it has an owner: only the goroutine
// that entered may exit, and on Exit ownership passes directly to the
// longest waiting goroutine, so a thread arriving later cannot barge in.
// Enter has no timeout.
//
// Enter and Exit read the caller's goroutine id on every call. That read
// parses a stack trace and costs about a microsecond, which is the bulk of
// an uncontended Enter; past it the free case is a single CAS and never
// touches the guard.
//
// The zero value is an unlocked mutex.
type Mutex struct {
	_ noCopy
	g guard
	// owner is the goroutine id of the holder, 0 when free, or
	// mutexDestroyed. It is only 0 while the queue is empty.
	owner atomic.Int64
	q     waitq
}

var _ sync.Locker = (*Mutex)(nil)

// NewMutex returns an unlocked mutex.
func NewMutex() *Mutex {
	return &Mutex{}
}

// Init resets m to unlocked. It must not be called while m is held or
// has waiters.
func (m *Mutex) Init() {
	be.lock(&m.g)
	m.owner.Store(0)
	m.q = waitq{}
	be.unlock(&m.g)
}

// Enter blocks until the caller owns m. It returns ErrDestroyed if m is
// destroyed before or while waiting, nil otherwise.
//
// Entering a mutex the caller already owns, or entering with the system
// lock held, halts.
func (m *Mutex) Enter() error {
	gid := goid.Get()
	mustNotBlockAs(gid, "Mutex.Enter")
	if m.owner.CompareAndSwap(0, gid) {
		return nil
	}
	if m.owner.Load() == gid {
		Halt("Mutex.Enter: mutex already owned by the caller")
	}

	be.lock(&m.g)
	if m.owner.Load() == mutexDestroyed {
		be.unlock(&m.g)
		return ErrDestroyed
	}
	if m.owner.CompareAndSwap(0, gid) {
		be.unlock(&m.g)
		return nil
	}
	w := newWaiter(gid)
	m.q.push(w)
	be.unlock(&m.g)

	be.park(w, DelayForever)
	return w.err()
}

// Exit releases m. If threads are waiting, the longest waiting one
// becomes the owner and is made runnable. Exit by a goroutine that does
// not own m halts.
func (m *Mutex) Exit() {
	gid := goid.Get()
	be.lock(&m.g)
	if m.owner.Load() != gid {
		be.unlock(&m.g)
		Halt("Mutex.Exit: mutex not owned by the caller")
	}
	if w := m.q.pop(); w != nil {
		m.owner.Store(w.gid)
		w.wake(wakeSignaled)
	} else {
		m.owner.Store(0)
	}
	be.unlock(&m.g)
}

// Destroy invalidates m and releases every waiter with ErrDestroyed.
// Destroying a mutex that is held is undefined: the holder's later Exit
// halts.
func (m *Mutex) Destroy() {
	be.lock(&m.g)
	m.owner.Store(mutexDestroyed)
	for w := m.q.pop(); w != nil; w = m.q.pop() {
		w.wake(wakeDestroyed)
	}
	be.unlock(&m.g)
}

// Lock is Enter for use as a sync.Locker. It halts if m was destroyed.
func (m *Mutex) Lock() {
	if err := m.Enter(); err != nil {
		Halt("Mutex.Lock: " + err.Error())
	}
}

// Unlock is Exit for use as a sync.Locker.
func (m *Mutex) Unlock() {
	m.Exit()
}
