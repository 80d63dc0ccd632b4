//go:build !linux

package terminal

// resetTerminalMode is a no-op where termios ioctls differ; Disable on the raw-mode switch restores state
func resetTerminalMode() {}
