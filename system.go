package gos

import (
	"sync/atomic"

	"github.com/llxisdsh/gos/internal/goid"
	"github.com/llxisdsh/gos/internal/opt"
)

// sys is the system critical section. It is hit from every goroutine that
// locks, so it gets a cache line of its own.
var sys struct {
	_ [opt.CacheLineSize_]byte
	// owner is the goroutine holding the lock, 0 when free.
	owner atomic.Int64
	// depth is only touched by the owner.
	depth int32
	_     [opt.CacheLineSize_]byte
}

// SystemLock locks out every other thread, and on bare-metal backends
// interrupt-level code, until SystemUnlock.
//
// The holder must not block: no Sem.Wait with a timeout, no Mutex.Enter,
// no Thread.Wait, no sleeping, no Alloc or ThreadCreate. Those halt when
// called with the lock held. Only the I-suffixed semaphore calls are
// meant for this context. Keep the locked section short.
//
// Whether the holder may lock again is backend-defined: the raw backend
// counts nested locks, the native backend halts.
func SystemLock() {
	systemEnter(goid.Get())
}

// SystemUnlock releases the lock taken by SystemLock. Unlocking from a
// goroutine that does not hold it halts.
func SystemUnlock() {
	systemExit(goid.Get())
}

// SystemLocked reports whether any goroutine holds the system lock.
func SystemLocked() bool {
	return sys.owner.Load() != 0
}

func systemEnter(gid int64) {
	if sys.owner.Load() == gid {
		if !be.caps().nestableSystemLock {
			Halt("SystemLock: already held by the caller")
		}
		sys.depth++
		return
	}
	be.irqLock()
	sys.owner.Store(gid)
	sys.depth = 1
}

func systemExit(gid int64) {
	if sys.owner.Load() != gid {
		Halt("SystemUnlock: system lock not held by the caller")
	}
	sys.depth--
	if sys.depth > 0 {
		return
	}
	sys.owner.Store(0)
	be.irqUnlock()
}

// mustNotBlock halts when the calling goroutine holds the system lock.
// The goroutine id is only computed when someone holds it.
func mustNotBlock(op string) {
	if o := sys.owner.Load(); o != 0 && o == goid.Get() {
		Halt(op + ": called with the system lock held")
	}
}

// mustNotBlockAs is mustNotBlock for callers that already know their id.
func mustNotBlockAs(gid int64, op string) {
	if o := sys.owner.Load(); o != 0 && o == gid {
		Halt(op + ": called with the system lock held")
	}
}
