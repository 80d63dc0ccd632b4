package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// ErrTTYClosed is returned by Enable after Close
var ErrTTYClosed = errors.New("tty closed")

// DevTTY is the controlling terminal opened directly, independent of stdin/stdout redirection
// It reads keys, writes frames and switches raw mode through one handle
//
// The read/write handle exists only between Enable and Disable; I/O outside that window fails.
// A DevTTY is used for one session: after Close it cannot be enabled again.
// tcell keeps its first handle on the device for the life of the process and offers no way to release it
type DevTTY struct {
	tty tcell.Tty

	mu      sync.Mutex
	enabled bool
	closed  bool
}

// OpenDevTTY opens /dev/tty
func OpenDevTTY() (*DevTTY, error) {
	return OpenDevTTYAt("/dev/tty")
}

// OpenDevTTYAt opens the terminal device at path, such as a pty slave
func OpenDevTTYAt(path string) (*DevTTY, error) {
	tty, err := tcell.NewDevTtyFromDev(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return &DevTTY{tty: tty}, nil
}

// Enable opens the read/write handle and enters raw mode
func (t *DevTTY) Enable() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTTYClosed
	}
	if t.enabled {
		return nil
	}
	if err := t.tty.Start(); err != nil {
		return err
	}
	t.enabled = true
	return nil
}

// Disable drains pending input, leaves raw mode and closes the read/write handle
// Safe to call multiple times
func (t *DevTTY) Disable() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disable()
}

func (t *DevTTY) disable() error {
	if !t.enabled {
		return nil
	}
	t.enabled = false
	_ = t.tty.Drain()
	return t.tty.Stop()
}

func (t *DevTTY) Read(p []byte) (int, error) {
	return t.tty.Read(p)
}

func (t *DevTTY) Write(p []byte) (int, error) {
	return t.tty.Write(p)
}

// Close leaves raw mode if still enabled and retires the DevTTY
// Stop already closed the read/write handle, so nothing is closed twice
func (t *DevTTY) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.disable()
}
