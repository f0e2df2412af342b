//go:build !unix && !windows

package gos

func monotonicNanos() uint64 {
	return fallbackNanos()
}
