package gos

import (
	"sync"
	"testing"
	"time"
)

func TestTicketLock(t *testing.T) {
	var m ticketLock
	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	var counter int64
	for range n {
		go func() {
			defer wg.Done()
			m.lock()
			counter++
			m.unlock()
		}()
	}
	wg.Wait()
	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}

func TestTicketLockOrder(t *testing.T) {
	var m ticketLock
	m.lock()

	const n = 4
	order := make(chan int, n)
	for i := range n {
		go func() {
			m.lock()
			order <- i
			m.unlock()
		}()
		// Wait until goroutine i holds its ticket.
		for m.next.Load() != uint32(i+2) {
			time.Sleep(time.Millisecond)
		}
	}
	m.unlock()
	for want := range n {
		if got := <-order; got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
}
