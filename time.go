package gos

import (
	"math"
	"time"
)

// SystemTicks returns the current tick count. Only differences between two
// readings are meaningful; see Ticks.
func SystemTicks() Ticks {
	return be.ticks()
}

// TicksSince returns the ticks elapsed since t, correct across wraparound
// as long as less than one full wrap has passed.
func TicksSince(t Ticks) Ticks {
	return be.ticks() - t
}

// MillisecondsToTicks converts a period to ticks, rounding up so that a
// wait of the returned length is never shorter than ms.
// DelayForever maps to the largest tick count.
func MillisecondsToTicks(ms Delay) Ticks {
	return msToTicks(ms, be.caps().tickHz)
}

// TicksToMilliseconds converts a tick period to milliseconds, rounding down.
func TicksToMilliseconds(t Ticks) Delay {
	hz := uint64(be.caps().tickHz)
	return Delay(min(uint64(t)*1000/hz, math.MaxUint32-1))
}

func msToTicks(ms Delay, hz uint32) Ticks {
	if ms == DelayForever {
		return math.MaxUint32
	}
	t := (uint64(ms)*uint64(hz) + 999) / 1000
	return Ticks(min(t, math.MaxUint32))
}

// Yield gives the rest of the current time slice to other threads.
func Yield() {
	be.yield()
}

// SleepMilliseconds suspends the calling thread for at least ms
// milliseconds. DelayNone only yields; DelayForever never returns.
func SleepMilliseconds(ms Delay) {
	sleepFor(ms, time.Millisecond, "SleepMilliseconds")
}

// SleepMicroseconds suspends the calling thread for at least us
// microseconds. DelayNone only yields; DelayForever never returns.
func SleepMicroseconds(us Delay) {
	sleepFor(us, time.Microsecond, "SleepMicroseconds")
}

func sleepFor(n Delay, unit time.Duration, op string) {
	switch n {
	case DelayNone:
		be.yield()
	case DelayForever:
		mustNotBlock(op)
		select {}
	default:
		mustNotBlock(op)
		be.sleep(time.Duration(n) * unit)
	}
}
