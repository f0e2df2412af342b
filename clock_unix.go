//go:build unix

package gos

import "golang.org/x/sys/unix"

// monotonicNanos reads CLOCK_MONOTONIC.
func monotonicNanos() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return fallbackNanos()
	}
	return uint64(ts.Nano())
}
