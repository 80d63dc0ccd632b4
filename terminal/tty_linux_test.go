//go:build linux

package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// openPTY returns the master side and the slave device path of a fresh pty
func openPTY(t *testing.T) (*os.File, string) {
	t.Helper()
	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() { master.Close() })

	rc, err := master.SyscallConn()
	if err != nil {
		t.Fatalf("SyscallConn failed: %v", err)
	}
	var n int
	var ctlErr error
	rc.Control(func(fd uintptr) {
		if ctlErr = unix.IoctlSetPointerInt(int(fd), unix.TIOCSPTLCK, 0); ctlErr != nil {
			return
		}
		n, ctlErr = unix.IoctlGetInt(int(fd), unix.TIOCGPTN)
	})
	if ctlErr != nil {
		t.Skipf("pty setup failed: %v", ctlErr)
	}
	return master, fmt.Sprintf("/dev/pts/%d", n)
}

// readUntil reads the master side until want appears
func readUntil(t *testing.T, master *os.File, want []byte) []byte {
	t.Helper()
	if err := master.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Skipf("pty does not support deadlines: %v", err)
	}
	var got []byte
	buf := make([]byte, 256)
	for !bytes.Contains(got, want) {
		n, err := master.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			t.Fatalf("Expected %q on the pty, got %q: %v", want, got, err)
		}
	}
	return got
}

func TestDevTTYLifecycle(t *testing.T) {
	master, slave := openPTY(t)

	tty, err := OpenDevTTYAt(slave)
	if err != nil {
		t.Fatalf("OpenDevTTYAt failed: %v", err)
	}

	if _, err := tty.Write([]byte("x")); err == nil {
		t.Error("Expected write before Enable to fail")
	}

	if err := tty.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if _, err := tty.Write(MouseEnable); err != nil {
		t.Fatalf("Expected write while enabled, got %v", err)
	}
	readUntil(t, master, MouseEnable)

	master.Write([]byte("q"))
	buf := make([]byte, 8)
	n, err := tty.Read(buf)
	if err != nil || string(buf[:n]) != "q" {
		t.Fatalf("Expected \"q\", got %q (%v)", buf[:n], err)
	}

	for i := 0; i < 2; i++ {
		if err := tty.Disable(); err != nil {
			t.Errorf("Disable %d: expected nil, got %v", i, err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := tty.Close(); err != nil {
			t.Errorf("Close %d: expected nil, got %v", i, err)
		}
	}
	if err := tty.Enable(); !errors.Is(err, ErrTTYClosed) {
		t.Errorf("Expected ErrTTYClosed after Close, got %v", err)
	}
}

func TestDevTTYCloseWhileEnabled(t *testing.T) {
	_, slave := openPTY(t)

	tty, err := OpenDevTTYAt(slave)
	if err != nil {
		t.Fatalf("OpenDevTTYAt failed: %v", err)
	}
	if err := tty.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if err := tty.Close(); err != nil {
		t.Errorf("Expected Close to leave raw mode cleanly, got %v", err)
	}
	if _, err := tty.Write([]byte("x")); err == nil {
		t.Error("Expected write after Close to fail")
	}
}
