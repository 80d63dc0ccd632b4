// @lixen: #focus{sys[term,io,input]}
package terminal

import (
	"io"
)

// lookaheadSize bounds the decoder buffer, one source read fills at most this many bytes
const lookaheadSize = 16

// maxMouseParam is the sanity limit for a single SGR mouse parameter
const maxMouseParam = 9999

// Decoder parses a raw byte stream into Keys
// One goroutine owns a Decoder and its source; it is not safe for concurrent use
type Decoder struct {
	src  io.Reader
	buf  [lookaheadSize]byte
	pos  int
	size int

	// Error returned by the source alongside data, reported once the data is consumed
	pending error
}

// NewDecoder creates a decoder reading from src
func NewDecoder(src io.Reader) *Decoder {
	return &Decoder{src: src}
}

// ReadKey blocks until a complete key or mouse event is available
// Partial, malformed and unsupported input is dropped internally and never surfaces
func (d *Decoder) ReadKey() (Key, error) {
	for {
		key, ok, err := d.decode()
		if err != nil {
			return Key{}, err
		}
		if ok {
			return key, nil
		}
	}
}

// buffered returns the next lookahead byte without touching the source
func (d *Decoder) buffered() (byte, bool) {
	if d.pos >= d.size {
		return 0, false
	}
	b := d.buf[d.pos]
	d.pos++
	return b, true
}

// next returns the next byte, refilling the lookahead with a blocking read when exhausted
func (d *Decoder) next() (byte, error) {
	for {
		if b, ok := d.buffered(); ok {
			return b, nil
		}
		if d.pending != nil {
			err := d.pending
			d.pending = nil
			return 0, err
		}

		n, err := d.src.Read(d.buf[:])
		d.pos = 0
		d.size = n
		if err != nil {
			if n == 0 {
				return 0, err
			}
			d.pending = err
		}
		// Zero-byte read without error (e.g. a read made only of telnet commands), retry
	}
}

// flush discards the remaining lookahead
func (d *Decoder) flush() {
	d.pos = d.size
}

// decode attempts one decode cycle, ok is false when the consumed bytes produced no event
func (d *Decoder) decode() (Key, bool, error) {
	b, err := d.next()
	if err != nil {
		return Key{}, false, err
	}

	switch {
	case b == 0x09:
		return Tab, true, nil
	case b == 0x0d:
		return Return, true, nil
	case b == 0x1b:
		return d.decodeEscape()
	case b == 0x7f:
		return Delete, true, nil
	case b >= 0x01 && b <= 0x1f:
		return Control(rune(b) + 'A' - 1), true, nil
	case b >= 0x20 && b <= 0x7e:
		return Char(rune(b)), true, nil

	// UTF-8 multibyte: skip the scalar, non-ASCII input is not reported
	case b&0xe0 == 0xc0:
		d.skipContinuation(1)
	case b&0xf0 == 0xe0:
		d.skipContinuation(2)
	case b&0xf8 == 0xf0:
		d.skipContinuation(3)
	}

	return Key{}, false, nil
}

// skipContinuation drops up to n buffered UTF-8 continuation bytes
func (d *Decoder) skipContinuation(n int) {
	for ; n > 0 && d.pos < d.size; n-- {
		if d.buf[d.pos]&0xc0 != 0x80 {
			return
		}
		d.pos++
	}
}

// decodeEscape handles the bytes following ESC
// Escape vs. sequence is decided on buffered bytes only; after CSI the sequence may block
func (d *Decoder) decodeEscape() (Key, bool, error) {
	b, ok := d.buffered()
	if !ok {
		return Escape, true, nil
	}
	if b != '[' {
		d.flush()
		return Key{}, false, nil
	}

	b, err := d.next()
	if err != nil {
		return Key{}, false, err
	}

	switch b {
	case 'A':
		return ArrowUp, true, nil
	case 'B':
		return ArrowDown, true, nil
	case 'C':
		return ArrowRight, true, nil
	case 'D':
		return ArrowLeft, true, nil
	case '<':
		return d.decodeMouse()
	}

	d.skipCSI(b)
	return Key{}, false, nil
}

// skipCSI drops the rest of an unrecognised CSI sequence up to its final byte
// Only buffered bytes are examined, a byte outside the CSI range is left for the next cycle
func (d *Decoder) skipCSI(b byte) {
	for b >= 0x20 && b <= 0x3f {
		if d.pos >= d.size {
			return
		}
		b = d.buf[d.pos]
		if b < 0x20 || b > 0x7e {
			return
		}
		d.pos++
	}
}

// decodeMouse parses an SGR mouse report after ESC [ <
// Format: Btn ; X ; Y followed by M (press) or m (release)
// A malformed report discards the lookahead so its tail never decodes as characters
func (d *Decoder) decodeMouse() (Key, bool, error) {
	var params [3]int
	idx := 0
	digits := 0

	drop := func() (Key, bool, error) {
		d.flush()
		return Key{}, false, nil
	}

	for range lookaheadSize {
		b, err := d.next()
		if err != nil {
			return Key{}, false, err
		}

		switch {
		case b >= '0' && b <= '9':
			params[idx] = params[idx]*10 + int(b-'0')
			digits++
			if params[idx] > maxMouseParam {
				return drop()
			}
		case b == ';':
			if digits == 0 || idx == len(params)-1 {
				return drop()
			}
			idx++
			digits = 0
		case b == 'M' || b == 'm':
			if digits == 0 || idx != len(params)-1 {
				return drop()
			}
			return mouseKey(params[0], params[1], params[2], b == 'M')
		default:
			return drop()
		}
	}

	// Overlong report
	return drop()
}

// mouseKey maps SGR button codes to keys, only plain left and right buttons are recognised
func mouseKey(cb, cx, cy int, press bool) (Key, bool, error) {
	var btn MouseButton
	switch cb {
	case 0:
		btn = MouseLeft
	case 2:
		btn = MouseRight
	default:
		return Key{}, false, nil
	}

	if press {
		return MouseDown(btn, cx, cy), true, nil
	}
	return MouseUp(btn, cx, cy), true, nil
}
