//go:build !gos_raw || gos_native

package gos

import (
	"math/bits"
	"sync"
)

// Size classes of the native allocator: powers of two from 64 B to 64 KiB.
// Larger requests go straight to the Go heap.
const (
	poolMinShift = 6
	poolMaxShift = 16
	poolClasses  = poolMaxShift - poolMinShift + 1
	// poolDepth is how many free blocks each class keeps.
	poolDepth = 16
)

// bufferPool keeps reusable blocks of one size.
// It uses a channel so Get and Put need no lock.
type bufferPool struct {
	pool    chan []byte
	bufSize int
}

func newBufferPool(bufSize, depth int) *bufferPool {
	return &bufferPool{
		pool:    make(chan []byte, depth),
		bufSize: bufSize,
	}
}

// get returns a pooled block, or allocates a new one if the pool is empty.
func (bp *bufferPool) get() []byte {
	select {
	case buf := <-bp.pool:
		return buf
	default:
		return make([]byte, bp.bufSize)
	}
}

// put returns a block to the pool. Blocks of the wrong capacity, and
// blocks that do not fit, are left to the garbage collector.
func (bp *bufferPool) put(buf []byte) {
	if cap(buf) != bp.bufSize {
		return
	}
	buf = buf[:bp.bufSize]
	clear(buf)
	select {
	case bp.pool <- buf:
	default:
	}
}

// poolSet is the native allocator: one bufferPool per size class,
// created on first use.
type poolSet struct {
	classes [poolClasses]struct {
		once sync.Once
		p    *bufferPool
	}
}

// classOf returns the size class serving n bytes, or -1 when n is too
// large for any class.
func classOf(n int) int {
	if n <= 1<<poolMinShift {
		return 0
	}
	shift := bits.Len(uint(n - 1))
	if shift > poolMaxShift {
		return -1
	}
	return shift - poolMinShift
}

func (s *poolSet) pool(c int) *bufferPool {
	e := &s.classes[c]
	e.once.Do(func() {
		e.p = newBufferPool(1<<(c+poolMinShift), poolDepth)
	})
	return e.p
}

func (s *poolSet) get(n int) []byte {
	c := classOf(n)
	if c < 0 {
		return make([]byte, n)
	}
	return s.pool(c).get()[:n]
}

func (s *poolSet) put(buf []byte) {
	c := classOf(cap(buf))
	if c < 0 || cap(buf) != 1<<(c+poolMinShift) {
		return
	}
	s.pool(c).put(buf)
}
