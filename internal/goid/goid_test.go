package goid

import (
	"sync"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"goroutine 1 [running]:\n", 1},
		{"goroutine 123456 [chan receive]:", 123456},
		{"goroutine x", 0},
		{"gorout", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := parse([]byte(c.in)); got != c.want {
			t.Fatalf("parse(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestGetDistinct(t *testing.T) {
	self := Get()
	if self == 0 {
		t.Fatal("Get returned 0 for the test goroutine")
	}
	if again := Get(); again != self {
		t.Fatalf("Get = %d, then %d", self, again)
	}

	const n = 16
	ids := make([]int64, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			ids[i] = Get()
		}()
	}
	wg.Wait()

	seen := map[int64]bool{self: true}
	for _, id := range ids {
		if id == 0 || seen[id] {
			t.Fatalf("duplicate or zero id %d", id)
		}
		seen[id] = true
	}
}
