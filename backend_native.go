//go:build !gos_raw || gos_native

package gos

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// The native backend maps every primitive onto the Go scheduler: object
// state sits behind a ticketLock, waiters park on a one-slot channel with
// an optional timer, memory comes from the Go heap through size-class
// pools, and ticks are milliseconds of the OS monotonic clock.

const nativeTickHz = 1000

type guard struct {
	tl ticketLock
}

type parker struct {
	// ch holds at most one pending wake-up, so an unpark that runs
	// before the waiter parks is not lost.
	ch chan struct{}
}

type backendImpl struct {
	// base is the raw tick reading at configure time; origin is where
	// the tick count restarts from.
	base   atomic.Uint32
	origin atomic.Uint32
	sysMu  sync.Mutex
	pools  poolSet
}

func (b *backendImpl) configure(c *Config) {
	b.base.Store(nativeRawTicks())
	b.origin.Store(uint32(c.tickOrigin))
}

func (b *backendImpl) caps() capabilities {
	return capabilities{
		name:               "native",
		tickHz:             nativeTickHz,
		nestableSystemLock: false,
	}
}

func nativeRawTicks() uint32 {
	return uint32(monotonicNanos() / 1e6)
}

func (b *backendImpl) ticks() Ticks {
	return Ticks(nativeRawTicks() - b.base.Load() + b.origin.Load())
}

func (b *backendImpl) sleep(d time.Duration) {
	time.Sleep(d)
}

func (b *backendImpl) yield() {
	runtime.Gosched()
}

func (b *backendImpl) irqLock() {
	b.sysMu.Lock()
}

func (b *backendImpl) irqUnlock() {
	b.sysMu.Unlock()
}

func (b *backendImpl) lock(g *guard) {
	g.tl.lock()
}

func (b *backendImpl) unlock(g *guard) {
	g.tl.unlock()
}

func (b *backendImpl) initParker(p *parker) {
	p.ch = make(chan struct{}, 1)
}

func (b *backendImpl) park(w *waiter, timeout Delay) bool {
	if timeout == DelayForever {
		<-w.p.ch
		return true
	}
	t := time.NewTimer(time.Duration(timeout) * time.Millisecond)
	defer t.Stop()
	select {
	case <-w.p.ch:
		return true
	case <-t.C:
		return false
	}
}

func (b *backendImpl) unpark(w *waiter) {
	select {
	case w.p.ch <- struct{}{}:
	default:
	}
}

func (b *backendImpl) alloc(n int) []byte {
	return b.pools.get(n)
}

func (b *backendImpl) free(buf []byte) {
	b.pools.put(buf)
}

// spawn runs fn on a new goroutine. High priority threads get an OS
// thread of their own for their whole life.
func (b *backendImpl) spawn(fn func(), prio Priority) {
	go func() {
		if prio >= PriorityHigh {
			runtime.LockOSThread()
		}
		fn()
	}()
}
