package gos

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestInitOptions(t *testing.T) {
	defer Init(WithLogger(quietLogger))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var halted, exited string
	Init(
		WithLogger(logger),
		WithHaltHandler(func(msg string) {
			halted = msg
			panic(&HaltError{Msg: "custom: " + msg})
		}),
		WithExitHandler(func() { exited = "yes" }),
		WithDefaultStackSize(2048),
		WithHeapSize(-1),
		WithTickFrequency(0),
	)

	c := config()
	if c.stackSize != 2048 {
		t.Fatalf("stack size = %d, want 2048", c.stackSize)
	}
	if c.heapSize != DefaultHeapSize || c.tickHz != DefaultTickFrequency {
		t.Fatalf("invalid options were applied: %+v", c)
	}
	if !strings.Contains(buf.String(), "gos init") {
		t.Fatalf("init not logged: %q", buf.String())
	}

	msg := expectHalt(t, func() { Halt("boom") })
	if halted != "boom" || msg != "custom: boom" {
		t.Fatalf("halt handler saw %q, panic carried %q", halted, msg)
	}
	if !strings.Contains(buf.String(), "gos halt") {
		t.Fatalf("halt not logged: %q", buf.String())
	}

	Exit()
	if exited != "yes" {
		t.Fatal("exit handler not called")
	}
}

func TestHaltPanicsWhenHandlerReturns(t *testing.T) {
	defer Init(WithLogger(quietLogger))
	Init(WithLogger(quietLogger), WithHaltHandler(func(string) {}))
	if msg := expectHalt(t, func() { Halt("still fatal") }); msg != "still fatal" {
		t.Fatalf("msg = %q", msg)
	}
}

func TestHaltError(t *testing.T) {
	err := &HaltError{Msg: "x"}
	if err.Error() != "gos: halt: x" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestPriorityString(t *testing.T) {
	if PriorityLow.String() != "low" || PriorityHigh.String() != "high" || Priority(7).String() != "priority(7)" {
		t.Fatal("unexpected priority names")
	}
}

func TestBackendName(t *testing.T) {
	switch n := BackendName(); n {
	case "native", "raw":
	default:
		t.Fatalf("backend = %q", n)
	}
}
