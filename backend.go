package gos

import "time"

// capabilities describes the compiled backend.
type capabilities struct {
	name string
	// tickHz is the rate at which SystemTicks advances.
	tickHz uint32
	// nestableSystemLock reports whether the holder of the system lock
	// may take it again.
	nestableSystemLock bool
}

// backend is the downward contract. Each realization lives in its own
// build-tagged file and defines a type named backendImpl; exactly one is
// compiled, so selecting two backends fails with a redeclaration error.
//
// Two more types come with each realization: guard, embedded in every Sem
// and Mutex to protect its state, and parker, embedded in every waiter.
type backend interface {
	configure(c *Config)
	caps() capabilities

	ticks() Ticks
	sleep(d time.Duration)
	yield()

	// irqLock and irqUnlock implement the system lock itself. Holder
	// tracking and nesting live in the portable layer.
	irqLock()
	irqUnlock()

	// lock and unlock protect a primitive's state. The sections they
	// bracket never block and never allocate.
	lock(g *guard)
	unlock(g *guard)

	initParker(p *parker)
	// park blocks until w is woken or timeout elapses, and reports
	// whether it was woken. An unpark that precedes park is not lost.
	park(w *waiter, timeout Delay) bool
	// unpark must not block or allocate.
	unpark(w *waiter)

	// alloc returns nil when the request cannot be met.
	alloc(n int) []byte
	free(b []byte)

	spawn(fn func(), prio Priority)
}

var (
	be backendImpl
	_  backend = (*backendImpl)(nil)
)
