// @focus: #sys { term }
// Package terminal provides the byte-level pieces of a terminal game session.
//
// Features:
//   - Key decoding from raw input, including arrows and SGR mouse reports
//   - Telnet command stripping for sessions served over TCP
//   - Cell-level diff rendering with 8/16 color SGR output
//   - Raw mode switching for stdin or /dev/tty, and crash-time restoration
//
// Output is direct ANSI, terminfo/termcap is bypassed.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
