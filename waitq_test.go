package gos

import "testing"

func TestWaitq(t *testing.T) {
	var q waitq
	if q.pop() != nil {
		t.Fatal("pop on empty queue")
	}
	ws := make([]*waiter, 5)
	for i := range ws {
		ws[i] = newWaiter(int64(i + 1))
		q.push(ws[i])
	}
	if q.len() != 5 {
		t.Fatalf("len = %d, want 5", q.len())
	}

	// Removing from the middle, the head and the tail keeps FIFO order.
	q.remove(ws[2])
	q.remove(ws[0])
	q.remove(ws[4])
	if ws[2].queued || ws[0].queued || ws[4].queued {
		t.Fatal("removed waiter still marked queued")
	}

	for _, want := range []*waiter{ws[1], ws[3]} {
		if got := q.pop(); got != want {
			t.Fatalf("pop = waiter %d, want %d", got.gid, want.gid)
		}
	}
	if q.pop() != nil || q.len() != 0 || q.head != nil || q.tail != nil {
		t.Fatal("queue not empty")
	}
}

func TestWaiterErr(t *testing.T) {
	w := newWaiter(1)
	if w.err() != ErrTimeout {
		t.Fatal("unwoken waiter should report a timeout")
	}
	w.wake(wakeSignaled)
	if w.err() != nil {
		t.Fatal("signalled waiter should report success")
	}
	w.result.Store(wakeDestroyed)
	if w.err() != ErrDestroyed {
		t.Fatal("destroyed waiter should report ErrDestroyed")
	}
	if !be.park(w, DelayForever) {
		t.Fatal("park after wake should return at once")
	}
}
