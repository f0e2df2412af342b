//go:build !gos_nothreads

package gos

import (
	"bytes"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/llxisdsh/pb"

	"github.com/llxisdsh/gos/internal/goid"
)

// ThreadFunc is the entry function of a thread. Its return value is the
// thread's exit code.
type ThreadFunc func(param any) int

// ThreadPanicked is the exit code of a thread whose entry panicked or
// called runtime.Goexit.
const ThreadPanicked = -1

// Thread state bits.
const (
	threadRunning  = 1 << iota // entry started
	threadFinished             // entry returned, code stored
	threadClosed               // handle consumed by Wait or Close
	threadJoined               // handle consumed by Wait
	threadForeign              // goroutine not started by ThreadCreate
)

// Thread is a handle to a thread started by ThreadCreate, or to the
// calling goroutine as returned by ThreadMe.
//
// The execution goes Created → Running → Finished. The handle is valid
// until it is consumed by exactly one Wait or Close; any later Wait or
// Close returns ErrInvalidHandle.
type Thread struct {
	_         noCopy
	id        uint64
	gid       atomic.Int64
	prio      Priority
	stack     []byte
	stackSize int
	ownsStack bool
	fn        ThreadFunc
	param     any
	state     atomic.Uint32
	done      latch
	// code and err are written by the thread before done opens.
	code int
	err  error
}

var (
	threadSeq atomic.Uint64
	// threads maps the goroutine id of every running thread to its
	// handle, for ThreadMe.
	threads = pb.NewMapOf[int64, *Thread](pb.WithPresize(64))
)

// ThreadCreate starts fn(param) on a new thread.
//
// If stack is nil, stackSize bytes are allocated from the backend
// allocator (the configured default size when stackSize is 0); the
// block belongs to the handle and is freed when the handle is consumed
// and the thread has finished. A caller-supplied stack stays owned by
// the caller; a stackSize of 0 (or larger than the area) uses all of it.
//
// It returns ErrNoMemory when the stack cannot be allocated. Creating a
// thread with the system lock held halts.
func ThreadCreate(stack []byte, stackSize int, prio Priority, fn ThreadFunc, param any) (*Thread, error) {
	if fn == nil {
		Halt("ThreadCreate: nil entry function")
	}
	mustNotBlock("ThreadCreate")

	t := &Thread{
		id:    threadSeq.Add(1),
		prio:  prio,
		fn:    fn,
		param: param,
	}
	if stack != nil {
		if stackSize <= 0 || stackSize > len(stack) {
			stackSize = len(stack)
		}
		t.stack = stack[:stackSize]
	} else {
		if stackSize <= 0 {
			stackSize = config().stackSize
		}
		t.stack = Alloc(stackSize)
		if t.stack == nil {
			config().logger.Warn("gos thread create failed",
				"stack_size", stackSize, "err", ErrNoMemory)
			return nil, ErrNoMemory
		}
		t.ownsStack = true
	}
	t.stackSize = stackSize

	be.spawn(t.run, prio)
	config().logger.Debug("gos thread created",
		"thread", t.id, "priority", prio, "stack_size", stackSize)
	return t, nil
}

// run executes the entry with panic/Goexit capture and publishes the
// result.
func (t *Thread) run() {
	gid := goid.Get()
	t.gid.Store(gid)
	_, _ = threads.ProcessEntry(
		gid,
		func(l *pb.EntryOf[int64, *Thread]) (*pb.EntryOf[int64, *Thread], *Thread, bool) {
			return &pb.EntryOf[int64, *Thread]{Value: t}, t, l != nil
		},
	)
	t.state.Or(threadRunning)

	normalReturn := false
	recovered := false
	defer func() {
		if !normalReturn && !recovered {
			t.code = ThreadPanicked
			t.err = ErrGoexit
		}
		threads.Delete(gid)
		old := t.state.Or(threadFinished)
		t.done.open()
		// Closed but not joined: nobody else will release the stack.
		if old&(threadClosed|threadJoined) == threadClosed {
			t.release()
		}
		config().logger.Debug("gos thread finished",
			"thread", t.id, "code", t.code, "err", t.err)
	}()

	func() {
		defer func() {
			if !normalReturn {
				if r := recover(); r != nil {
					t.code = ThreadPanicked
					t.err = newPanicError(r)
				}
			}
		}()
		t.code = t.fn(t.param)
		normalReturn = true
	}()

	if !normalReturn {
		recovered = true
	}
}

// Wait blocks until the thread's entry returns, then consumes the handle
// and returns the exit code. If the entry panicked the code is
// ThreadPanicked and the error wraps the panic value.
//
// Waiting on a consumed or foreign handle returns ErrInvalidHandle.
// Waiting on oneself, or with the system lock held, halts.
func (t *Thread) Wait() (int, error) {
	gid := goid.Get()
	mustNotBlockAs(gid, "Thread.Wait")
	if t.state.Load()&threadForeign != 0 {
		return 0, ErrInvalidHandle
	}
	if t.gid.Load() == gid {
		Halt("Thread.Wait: thread waits on itself")
	}
	// A rejected Wait leaves the state alone, so that a closed running
	// thread still frees its own stack.
	for {
		old := t.state.Load()
		if old&threadClosed != 0 {
			return 0, ErrInvalidHandle
		}
		if t.state.CompareAndSwap(old, old|threadClosed|threadJoined) {
			break
		}
	}
	t.done.wait()
	t.release()
	return t.code, t.err
}

// Close consumes the handle without waiting. A running thread is not
// affected; it frees its own stack when it finishes.
func (t *Thread) Close() error {
	old := t.state.Or(threadClosed)
	if old&threadClosed != 0 {
		return ErrInvalidHandle
	}
	if old&(threadForeign|threadFinished) == threadFinished {
		t.release()
	}
	return nil
}

func (t *Thread) release() {
	if t.ownsStack {
		Free(t.stack)
	}
}

// ThreadMe returns a handle to the calling thread. The caller does not
// own it: it must not be waited on. For goroutines not started by
// ThreadCreate it is a foreign handle that only supports identity.
func ThreadMe() *Thread {
	gid := goid.Get()
	if t, ok := threads.Load(gid); ok && t != nil {
		return t
	}
	f := &Thread{prio: PriorityNormal}
	f.gid.Store(gid)
	f.state.Store(threadRunning | threadForeign)
	return f
}

// ID returns the creation sequence number of the thread, or 0 for a
// foreign handle.
func (t *Thread) ID() uint64 {
	return t.id
}

// Priority returns the priority the thread was created with.
func (t *Thread) Priority() Priority {
	return t.prio
}

// StackSize returns the size of the thread's stack area.
func (t *Thread) StackSize() int {
	return t.stackSize
}

// Finished reports whether the entry function has returned.
func (t *Thread) Finished() bool {
	return t.done.isOpen()
}

// Equal reports whether t and o refer to the same execution.
func (t *Thread) Equal(o *Thread) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	g := t.gid.Load()
	return g != 0 && g == o.gid.Load()
}

func (t *Thread) String() string {
	if t.state.Load()&threadForeign != 0 {
		return fmt.Sprintf("thread(foreign, goroutine %d)", t.gid.Load())
	}
	return fmt.Sprintf("thread(%d, %s)", t.id, t.prio)
}

// -------------------------
// Panic/Goexit handling
// -------------------------

// panicError is an arbitrary value recovered from a panic in a thread
// entry, with the stack trace at the point of the panic.
type panicError struct {
	value any
	stack []byte
}

// Error implements error interface.
func (p *panicError) Error() string {
	return fmt.Sprintf("gos: thread panicked: %v\n\n%s", p.value, p.stack)
}

// Unwrap returns the underlying error value, if any.
func (p *panicError) Unwrap() error {
	if err, ok := p.value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(v any) error {
	stack := debug.Stack()
	// Trim first line "goroutine N [status]:" which can be misleading.
	if line := bytes.IndexByte(stack[:], '\n'); line >= 0 {
		stack = stack[line+1:]
	}
	return &panicError{value: v, stack: stack}
}
