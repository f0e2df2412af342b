package gos

import "sync/atomic"

// MemStat is a snapshot of the allocator counters.
type MemStat struct {
	// InUse is the capacity, in bytes, of blocks handed out and not yet
	// freed.
	InUse int64
	// Allocs and Frees count successful Alloc and Free calls.
	Allocs uint64
	Frees  uint64
	// Failed counts Alloc calls the backend could not satisfy.
	Failed uint64
}

var memStats struct {
	inUse  atomic.Int64
	allocs atomic.Uint64
	frees  atomic.Uint64
	failed atomic.Uint64
}

// Alloc returns a block of n bytes from the backend allocator, or nil
// when the backend is out of memory or n is not positive. The block is
// zeroed. Allocating with the system lock held halts.
func Alloc(n int) []byte {
	mustNotBlock("Alloc")
	if n <= 0 {
		return nil
	}
	b := be.alloc(n)
	if b == nil {
		memStats.failed.Add(1)
		config().logger.Debug("gos alloc failed", "size", n)
		return nil
	}
	memStats.inUse.Add(int64(cap(b)))
	memStats.allocs.Add(1)
	return b
}

// Free returns a block obtained from Alloc or Realloc. The block must
// not be used afterwards. Free(nil) does nothing.
func Free(b []byte) {
	if b == nil {
		return
	}
	memStats.inUse.Add(-int64(cap(b)))
	memStats.frees.Add(1)
	be.free(b)
}

// Realloc resizes a block, copying its contents. On failure it returns
// nil and b is left untouched. Realloc(nil, n) is Alloc(n); a
// non-positive n frees b.
func Realloc(b []byte, n int) []byte {
	if n <= 0 {
		Free(b)
		return nil
	}
	if b != nil && n <= cap(b) {
		return b[:n]
	}
	nb := Alloc(n)
	if nb == nil {
		return nil
	}
	copy(nb, b)
	Free(b)
	return nb
}

// MemStats returns the allocator counters.
func MemStats() MemStat {
	return MemStat{
		InUse:  memStats.inUse.Load(),
		Allocs: memStats.allocs.Load(),
		Frees:  memStats.frees.Load(),
		Failed: memStats.failed.Load(),
	}
}
