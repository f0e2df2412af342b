// Package gos is a portable operating-system layer for code that shares
// devices between threads: counting semaphores with timeouts, a FIFO
// mutex, a system-wide critical section, joinable threads, a tick clock
// and a small allocator.
//
// The contract is the same everywhere; the realization is chosen at build
// time. The default (or -tags=gos_native) backend maps every primitive onto
// the Go scheduler. The raw backend (-tags=gos_raw) emulates a bare-metal
// target: one global interrupt mask guards all primitive state, waiters
// poll against a wrapping tick counter and memory comes from a fixed heap.
// Selecting both tags is a build error.
//
// Suspension points are exactly Sem.Wait (when the count goes negative),
// Mutex.Enter (when owned), Thread.Wait and the sleeps. Everything else is
// non-blocking. Only the I-suffixed semaphore calls may be used while the
// system lock is held.
package gos

import (
	"errors"
	"fmt"
	"math"
)

// Delay is a duration in milliseconds (microseconds for SleepMicroseconds).
type Delay uint32

const (
	// DelayNone never waits: a Wait with it only tests the semaphore, a
	// sleep with it only yields.
	DelayNone Delay = 0
	// DelayForever never times out.
	DelayForever Delay = math.MaxUint32
)

// Ticks is an opaque system time. It wraps silently, so periods must be
// computed as t2 - t1 and compared against the wanted period, never by
// comparing t1 + period against t2.
type Ticks uint32

// Semcount is the signed counter type of a semaphore.
type Semcount = int32

// MaxSemaphoreCount is the largest limit a semaphore accepts.
const MaxSemaphoreCount Semcount = math.MaxInt32

// Priority is a scheduling hint for new threads.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

var (
	// ErrTimeout is returned by Sem.Wait when the timeout elapsed first.
	ErrTimeout = errors.New("gos: wait timed out")
	// ErrDestroyed is returned to waiters released by Destroy, and by
	// waits on an object that was already destroyed.
	ErrDestroyed = errors.New("gos: object destroyed")
	// ErrInvalidHandle is returned when a thread handle is used after it
	// was consumed by Wait or Close, or when a foreign handle is joined.
	ErrInvalidHandle = errors.New("gos: invalid thread handle")
	// ErrNoMemory is returned when the backend allocator is exhausted.
	ErrNoMemory = errors.New("gos: out of memory")
	// ErrGoexit is returned by Thread.Wait when the thread's entry called
	// runtime.Goexit.
	ErrGoexit = errors.New("gos: runtime.Goexit was called")
)

// HaltError is the panic value of the default halt handler.
type HaltError struct {
	Msg string
}

func (e *HaltError) Error() string {
	return "gos: halt: " + e.Msg
}

// Halt stops the application because of an unrecoverable condition,
// typically a programming error such as releasing a mutex that is not
// owned, or blocking while the system lock is held.
//
// The message is logged at error level, then the halt handler runs. The
// default handler panics with a *HaltError; see WithHaltHandler.
func Halt(msg string) {
	c := config()
	c.logger.Error("gos halt", "msg", msg, "backend", BackendName())
	c.halt(msg)
	// A handler that returns must not let the caller continue.
	panic(&HaltError{Msg: msg})
}

// Exit terminates the application normally through the exit handler.
func Exit() {
	c := config()
	c.logger.Debug("gos exit", "backend", BackendName())
	c.exit()
}

// BackendName reports the backend compiled into this binary.
func BackendName() string {
	return be.caps().name
}
