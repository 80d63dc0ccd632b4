package terminal

import (
	"fmt"

	"golang.org/x/term"
)

// RawMode switches a file descriptor in and out of raw mode
// Used when the game runs on the process's own stdin/stdout
type RawMode struct {
	fd      int
	oldTerm *term.State
}

// NewRawMode returns a switch for fd, which must refer to a terminal
func NewRawMode(fd int) (*RawMode, error) {
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("fd %d is not a terminal", fd)
	}
	return &RawMode{fd: fd}, nil
}

// Enable puts the terminal in raw mode, remembering the prior state
func (m *RawMode) Enable() error {
	old, err := term.MakeRaw(m.fd)
	if err != nil {
		return err
	}
	m.oldTerm = old
	return nil
}

// Disable restores the state saved by Enable. Safe to call multiple times
func (m *RawMode) Disable() error {
	if m.oldTerm == nil {
		return nil
	}
	err := term.Restore(m.fd, m.oldTerm)
	m.oldTerm = nil
	return err
}
