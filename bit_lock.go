//go:build gos_raw

package gos

import "sync/atomic"

// bitLock acquires a bit-lock on the given address using the specified bit mask.
// It assumes the lock is held if (value & mask) != 0.
// It spins until the lock can be acquired.
//
// The raw backend keeps its interrupt mask as one bit of a status word.
func bitLock(addr *uint32, mask uint32) {
	cur := atomic.LoadUint32(addr)
	if atomic.CompareAndSwapUint32(addr, cur&^mask, cur|mask) {
		return
	}
	var spins int
	for !tryBitLock(addr, mask) {
		delay(&spins)
	}
}

func tryBitLock(addr *uint32, mask uint32) bool {
	for {
		cur := atomic.LoadUint32(addr)
		if cur&mask != 0 {
			return false
		}
		if atomic.CompareAndSwapUint32(addr, cur, cur|mask) {
			return true
		}
	}
}

// bitUnlock releases the bit-lock by clearing the specified bit mask.
// It preserves other bits in the value.
func bitUnlock(addr *uint32, mask uint32) {
	for {
		cur := atomic.LoadUint32(addr)
		if atomic.CompareAndSwapUint32(addr, cur, cur&^mask) {
			return
		}
	}
}
