//go:build gos_raw

package gos

import (
	"math/bits"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/llxisdsh/gos/internal/goid"
)

// The raw backend emulates a target without an operating system. One
// interrupt-mask word is the only lock: the system lock sets it, and the
// state of every Sem and Mutex is touched only with it set, exactly as a
// bare-metal port disables interrupts around its queues. Waiters do not
// sleep in a scheduler; they poll their wake flag against the wrapping
// tick counter. Memory comes from a fixed heap budget.

const irqMasked = 1

type guard struct{}

type parker struct{}

type backendImpl struct {
	irq      uint32
	tickHz   atomic.Uint32
	base     atomic.Uint32
	origin   atomic.Uint32
	heapSize atomic.Int64
	heapUsed atomic.Int64
}

func (b *backendImpl) configure(c *Config) {
	b.tickHz.Store(c.tickHz)
	b.base.Store(b.rawTicks())
	b.origin.Store(uint32(c.tickOrigin))
	b.heapSize.Store(int64(c.heapSize))
}

func (b *backendImpl) caps() capabilities {
	return capabilities{
		name:               "raw",
		tickHz:             b.tickHz.Load(),
		nestableSystemLock: true,
	}
}

func (b *backendImpl) rawTicks() uint32 {
	hi, lo := bits.Mul64(monotonicNanos(), uint64(b.tickHz.Load()))
	q, _ := bits.Div64(hi, lo, 1e9)
	return uint32(q)
}

func (b *backendImpl) ticks() Ticks {
	return Ticks(b.rawTicks() - b.base.Load() + b.origin.Load())
}

// sleep busy-waits, as a bare-metal delay loop would.
func (b *backendImpl) sleep(d time.Duration) {
	start := monotonicNanos()
	var spins int
	for time.Duration(monotonicNanos()-start) < d {
		delay(&spins)
	}
}

func (b *backendImpl) yield() {
	runtime.Gosched()
}

func (b *backendImpl) irqLock() {
	bitLock(&b.irq, irqMasked)
}

func (b *backendImpl) irqUnlock() {
	bitUnlock(&b.irq, irqMasked)
}

// lock masks interrupts. Callers already holding the system lock nest.
func (b *backendImpl) lock(_ *guard) {
	systemEnter(goid.Get())
}

func (b *backendImpl) unlock(_ *guard) {
	systemExit(goid.Get())
}

func (b *backendImpl) initParker(_ *parker) {}

// park polls the wake flag. The deadline is kept as an elapsed-ticks
// budget so that it survives the counter wrapping. The start tick is
// already partly over, so the budget must be exceeded, not just reached.
func (b *backendImpl) park(w *waiter, timeout Delay) bool {
	start := b.ticks()
	budget := msToTicks(timeout, b.tickHz.Load())
	var spins int
	for w.result.Load() == wakeNone {
		if timeout != DelayForever && b.ticks()-start > budget {
			return false
		}
		delay(&spins)
	}
	return true
}

func (b *backendImpl) unpark(_ *waiter) {}

// alloc reserves n bytes of the heap budget.
func (b *backendImpl) alloc(n int) []byte {
	for {
		used := b.heapUsed.Load()
		if used+int64(n) > b.heapSize.Load() {
			return nil
		}
		if b.heapUsed.CompareAndSwap(used, used+int64(n)) {
			return make([]byte, n)
		}
	}
}

func (b *backendImpl) free(buf []byte) {
	b.heapUsed.Add(-int64(cap(buf)))
}

func (b *backendImpl) spawn(fn func(), _ Priority) {
	go fn()
}
