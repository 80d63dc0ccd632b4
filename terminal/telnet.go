package terminal

import (
	"io"
)

// Telnet command bytes (RFC 854)
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Subnegotiation begin
	SE   byte = 240 // Subnegotiation end
)

// Telnet option codes used by the session handshake
const (
	OptEcho     byte = 1
	OptLinemode byte = 34
)

// TelnetHandshake is sent by the server at session start:
// client stops line editing (LINEMODE with MODE 0) and the server takes over echo
var TelnetHandshake = []byte{
	IAC, DO, OptLinemode,
	IAC, SB, OptLinemode, 1, 0, IAC, SE,
	IAC, WILL, OptEcho,
}

// telnetState tracks where the filter is inside a protocol sequence
type telnetState uint8

const (
	telnetPlain telnetState = iota
	telnetWaitCommand
	telnetWaitOption
	telnetWaitSubnegotiation
)

// plain advances the state machine by one byte and reports whether the byte is application data
func (s *telnetState) plain(b byte) bool {
	if b == IAC {
		*s = telnetWaitCommand
		return false
	}

	switch *s {
	case telnetPlain:
		return true
	case telnetWaitCommand:
		switch {
		case b == SB:
			*s = telnetWaitSubnegotiation
		case b >= WILL && b <= DONT:
			*s = telnetWaitOption
		default:
			*s = telnetPlain
		}
	case telnetWaitOption:
		*s = telnetPlain
	case telnetWaitSubnegotiation:
		// Discarded until the next IAC
	}
	return false
}

// TelnetReader strips telnet commands, option negotiation and subnegotiation from a stream
// State persists across reads so sequences split between reads are still removed
type TelnetReader struct {
	r     io.Reader
	state telnetState
}

// NewTelnetReader wraps r
func NewTelnetReader(r io.Reader) *TelnetReader {
	return &TelnetReader{r: r}
}

// Read reads from the underlying source and compacts the application bytes to the front of p
// The returned count may be zero even when the underlying read returned data
func (t *TelnetReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	out := 0
	for i := 0; i < n; i++ {
		if t.state.plain(p[i]) {
			p[out] = p[i]
			out++
		}
	}
	return out, err
}
