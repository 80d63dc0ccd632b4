package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/lixenwraith/termsweep/terminal"
)

// RawSwitch is the part of a raw-mode terminal the crash path needs
type RawSwitch interface {
	Disable() error
}

var crashTerminal atomic.Pointer[RawSwitch]

// RegisterCrashTerminal records the terminal whose raw mode HandleCrash must undo
func RegisterCrashTerminal(t RawSwitch) {
	crashTerminal.Store(&t)
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if t := crashTerminal.Load(); t != nil {
		(*t).Disable()
	}
	// Restore terminal to sane state immediately
	terminal.EmergencyReset(os.Stdout)

	os.Stdout.Sync()
	os.Stderr.Sync()

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())

	os.Stderr.Sync()

	os.Exit(1)
}

// PanicError converts a recovered panic into an error carrying the stack of the panicking goroutine
// Used where a panic must end one session rather than the process
func PanicError(r any) error {
	return errors.Errorf("panic: %v\n%s", r, debug.Stack())
}
