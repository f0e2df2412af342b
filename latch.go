package gos

import (
	"sync/atomic"

	"github.com/llxisdsh/gos/internal/opt"
)

// latch is a one-way door: once open, every current and future wait
// returns. A thread opens its latch when its entry function returns.
type latch struct {
	_ noCopy
	// state 32-bit:
	//   bit 0: open flag
	//   bits 1-31: waiter count
	state atomic.Uint32
	sema  opt.Sema
}

const (
	latchOpenFlag  = 1
	latchOneWaiter = 2 // 1 << 1
)

// open wakes every blocked waiter. It is idempotent.
func (e *latch) open() {
	for {
		s := e.state.Load()
		if s&latchOpenFlag != 0 {
			return
		}
		if e.state.CompareAndSwap(s, s|latchOpenFlag) {
			for range s >> 1 {
				e.sema.Release()
			}
			return
		}
	}
}

// wait blocks until open has been called.
func (e *latch) wait() {
	for {
		s := e.state.Load()
		if s&latchOpenFlag != 0 {
			return
		}
		if e.state.CompareAndSwap(s, s+latchOneWaiter) {
			e.sema.Acquire()
			return
		}
	}
}

func (e *latch) isOpen() bool {
	return e.state.Load()&latchOpenFlag != 0
}
