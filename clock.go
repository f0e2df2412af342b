package gos

import "time"

var clockStart = time.Now()

// fallbackNanos is the Go runtime's monotonic clock, relative to package
// initialization.
func fallbackNanos() uint64 {
	return uint64(time.Since(clockStart))
}
