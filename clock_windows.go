//go:build windows

package gos

import "golang.org/x/sys/windows"

// monotonicNanos reads the system tick count, which has millisecond
// resolution and does not stop across sleep.
func monotonicNanos() uint64 {
	return windows.GetTickCount64() * 1e6
}
