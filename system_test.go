package gos

import (
	"sync"
	"testing"
	"time"
)

func TestSystemLock_Exclusion(t *testing.T) {
	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	counter := 0
	for range n {
		go func() {
			defer wg.Done()
			SystemLock()
			counter++
			SystemUnlock()
		}()
	}
	wg.Wait()
	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
	if SystemLocked() {
		t.Fatal("system lock still held")
	}
}

func TestSystemLock_BlocksOthers(t *testing.T) {
	SystemLock()
	entered := make(chan struct{})
	go func() {
		SystemLock()
		close(entered)
		SystemUnlock()
	}()
	select {
	case <-entered:
		t.Fatal("second holder entered a held system lock")
	case <-time.After(30 * time.Millisecond):
	}
	SystemUnlock()
	<-entered
}

func TestSystemLock_Nesting(t *testing.T) {
	SystemLock()
	defer SystemUnlock()
	if !be.caps().nestableSystemLock {
		expectHalt(t, SystemLock)
		return
	}
	SystemLock()
	SystemUnlock()
	if !SystemLocked() {
		t.Fatal("inner unlock released the outer lock")
	}
}

func TestSystemUnlock_NotHeldHalts(t *testing.T) {
	expectHalt(t, SystemUnlock)

	SystemLock()
	done := make(chan bool)
	go func() {
		defer func() {
			_, ok := recover().(*HaltError)
			done <- ok
		}()
		SystemUnlock()
	}()
	if !<-done {
		t.Fatal("unlock from another goroutine did not halt")
	}
	SystemUnlock()
}

func TestSystemLock_ForbidsBlocking(t *testing.T) {
	SystemLock()
	defer SystemUnlock()
	expectHalt(t, func() { SleepMilliseconds(1) })
	expectHalt(t, func() { SleepMicroseconds(1) })
	expectHalt(t, func() { Alloc(16) })
	// Yielding is not a suspension in the blocking sense.
	SleepMilliseconds(DelayNone)
}
