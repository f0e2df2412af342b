package gos

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// ============================================================================
// Configuration
// ============================================================================

const (
	// DefaultStackSize is the stack reserved for a thread created with a
	// nil stack area and a zero stack size.
	DefaultStackSize = 4096
	// DefaultHeapSize is the heap budget of backends with a fixed heap.
	DefaultHeapSize = 1 << 20
	// DefaultTickFrequency is the tick rate, in Hz, of backends with a
	// configurable tick.
	DefaultTickFrequency = 1000
)

// Config holds the package-wide settings applied by Init.
type Config struct {
	// logger receives debug records for thread lifecycle events and an
	// error record for every Halt.
	logger *slog.Logger

	// halt is called by Halt after logging. It must not return; if it
	// does, Halt panics anyway.
	halt func(msg string)

	// exit is called by Exit.
	exit func()

	// stackSize is the size reserved when ThreadCreate gets neither a
	// stack area nor a size.
	stackSize int

	// heapSize bounds the bytes a fixed-heap backend hands out. Backends
	// backed by the Go heap ignore it.
	heapSize int

	// tickHz is the tick rate of backends with a configurable tick.
	// Backends bound to a native tick ignore it.
	tickHz uint32

	// tickOrigin is the tick count right after Init. Setting it close to
	// the wrap point exercises wraparound early.
	tickOrigin Ticks
}

// WithLogger sets the logger used by the package.
func WithLogger(l *slog.Logger) func(*Config) {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHaltHandler replaces the action taken by Halt after logging.
// The handler must not return.
func WithHaltHandler(fn func(msg string)) func(*Config) {
	return func(c *Config) {
		if fn != nil {
			c.halt = fn
		}
	}
}

// WithExitHandler replaces the action taken by Exit.
func WithExitHandler(fn func()) func(*Config) {
	return func(c *Config) {
		if fn != nil {
			c.exit = fn
		}
	}
}

// WithDefaultStackSize sets the stack size used by ThreadCreate when it is
// given neither a stack area nor a size. Non-positive values are ignored.
func WithDefaultStackSize(n int) func(*Config) {
	return func(c *Config) {
		if n > 0 {
			c.stackSize = n
		}
	}
}

// WithHeapSize sets the heap budget of fixed-heap backends.
// Non-positive values are ignored.
func WithHeapSize(n int) func(*Config) {
	return func(c *Config) {
		if n > 0 {
			c.heapSize = n
		}
	}
}

// WithTickFrequency sets the tick rate, in Hz, of backends whose tick is
// configurable. Zero is ignored.
func WithTickFrequency(hz uint32) func(*Config) {
	return func(c *Config) {
		if hz > 0 {
			c.tickHz = hz
		}
	}
}

// WithTickOrigin makes the tick count restart from origin at Init.
func WithTickOrigin(origin Ticks) func(*Config) {
	return func(c *Config) {
		c.tickOrigin = origin
	}
}

var cfg atomic.Pointer[Config]

func init() {
	c := defaultConfig()
	cfg.Store(c)
	be.configure(c)
}

func defaultConfig() *Config {
	return &Config{
		logger: slog.Default(),
		halt: func(msg string) {
			panic(&HaltError{Msg: msg})
		},
		exit:      func() { os.Exit(0) },
		stackSize: DefaultStackSize,
		heapSize:  DefaultHeapSize,
		tickHz:    DefaultTickFrequency,
	}
}

// Init resets the package configuration to its defaults and applies
// options on top. It is meant to run once at startup, before any
// primitive is in use; the package works without calling it.
func Init(options ...func(*Config)) {
	c := defaultConfig()
	for _, o := range options {
		o(c)
	}
	cfg.Store(c)
	be.configure(c)
	c.logger.Debug("gos init",
		"backend", BackendName(),
		"stack_size", c.stackSize,
		"heap_size", c.heapSize,
		"tick_hz", be.caps().tickHz,
	)
}

func config() *Config {
	return cfg.Load()
}
