//go:build race

package opt

import "sync"

const Race_ = true

// Sema is a counting semaphore visible to the race detector.
// Under -race the runtime semaphores carry no happens-before edges,
// so Acquire/Release go through a sync.Mutex and sync.Cond instead.
// Unlike the !race variant it is not a bare uint32; it is still
// zero-value usable.
type Sema struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count uint32
}

func (s *Sema) Acquire() {
	s.mu.Lock()
	if s.cond == nil {
		s.cond = sync.NewCond(&s.mu)
	}
	for s.count == 0 {
		s.cond.Wait()
	}
	s.count--
	s.mu.Unlock()
}

func (s *Sema) Release() {
	s.mu.Lock()
	if s.cond == nil {
		s.cond = sync.NewCond(&s.mu)
	}
	s.count++
	s.mu.Unlock()
	s.cond.Signal()
}
