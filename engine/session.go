package engine

import (
	"io"

	"github.com/pkg/errors"

	"github.com/lixenwraith/termsweep/terminal"
)

// RawSwitch toggles raw mode on a local terminal
type RawSwitch interface {
	Enable() error
	Disable() error
}

// RunTelnet runs game over a telnet connection
// Sends the negotiation that puts the client in character mode with server echo,
// enables mouse reporting, and strips telnet commands from the input side
func RunTelnet[G Game](game G, r io.Reader, w io.Writer, opts ...Option) error {
	if _, err := w.Write(terminal.TelnetHandshake); err != nil {
		return errors.Wrap(err, "sending telnet handshake")
	}
	if _, err := w.Write(terminal.MouseEnable); err != nil {
		return errors.Wrap(err, "enabling mouse")
	}

	err := Run(game, terminal.NewTelnetReader(r), w, opts...)

	// Best effort, the connection may already be gone
	w.Write(terminal.MouseDisable)
	return err
}

// RunTTY runs game on a local terminal, holding raw mode for the duration
// Mouse reporting is bracketed inside raw mode: a device such as DevTTY only accepts
// writes between Enable and Disable
func RunTTY[G Game](game G, tty RawSwitch, r io.Reader, w io.Writer, opts ...Option) error {
	if err := tty.Enable(); err != nil {
		return errors.Wrap(err, "entering raw mode")
	}
	defer tty.Disable()

	if _, err := w.Write(terminal.MouseEnable); err != nil {
		return errors.Wrap(err, "enabling mouse")
	}
	defer w.Write(terminal.MouseDisable)

	return Run(game, r, w, opts...)
}
