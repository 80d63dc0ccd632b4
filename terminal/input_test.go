package terminal

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// chunkReader returns one scripted chunk per Read, then io.EOF
type chunkReader struct {
	chunks [][]byte
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n == len(c.chunks[0]) {
		c.chunks = c.chunks[1:]
	} else {
		c.chunks[0] = c.chunks[0][n:]
	}
	return n, nil
}

func chunks(parts ...string) *chunkReader {
	r := &chunkReader{}
	for _, p := range parts {
		r.chunks = append(r.chunks, []byte(p))
	}
	return r
}

// readAll decodes keys until the source is exhausted
func readAll(t *testing.T, r io.Reader) []Key {
	t.Helper()
	d := NewDecoder(r)
	var keys []Key
	for {
		k, err := d.ReadKey()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("Unexpected error: %v", err)
			}
			return keys
		}
		keys = append(keys, k)
	}
}

func expectKeys(t *testing.T, got, want []Key) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d keys %v, got %d keys %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Key %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestDecoderCharacters(t *testing.T) {
	got := readAll(t, chunks("ab"))
	expectKeys(t, got, []Key{Char('a'), Char('b')})
}

func TestDecoderSingleBytes(t *testing.T) {
	tests := []struct {
		name string
		in   byte
		want Key
	}{
		{"tab", 0x09, Tab},
		{"return", 0x0d, Return},
		{"delete", 0x7f, Delete},
		{"ctrl-a", 0x01, Control('A')},
		{"ctrl-c", 0x03, Control('C')},
		{"ctrl-z", 0x1a, Control('Z')},
		{"space", ' ', Char(' ')},
		{"tilde", '~', Char('~')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, bytes.NewReader([]byte{tt.in}))
			expectKeys(t, got, []Key{tt.want})
		})
	}
}

func TestDecoderArrows(t *testing.T) {
	got := readAll(t, chunks("\x1b[A\x1b[B\x1b[C\x1b[D"))
	expectKeys(t, got, []Key{ArrowUp, ArrowDown, ArrowRight, ArrowLeft})
}

func TestDecoderLoneEscape(t *testing.T) {
	// ESC alone in a read is the Escape key, the following read is separate input
	got := readAll(t, chunks("\x1b", "[A"))
	expectKeys(t, got, []Key{Escape, Char('['), Char('A')})
}

func TestDecoderArrowSplitAfterCSI(t *testing.T) {
	// Once ESC [ is seen the decoder blocks for the final byte
	got := readAll(t, chunks("\x1b[", "A"))
	expectKeys(t, got, []Key{ArrowUp})
}

func TestDecoderEscapeNonCSIFlushes(t *testing.T) {
	got := readAll(t, chunks("\x1bOPxy", "z"))
	expectKeys(t, got, []Key{Char('z')})
}

func TestDecoderUnknownCSI(t *testing.T) {
	// Home key and F5 are skipped whole, following input survives
	got := readAll(t, chunks("\x1b[1~q", "\x1b[15~w"))
	expectKeys(t, got, []Key{Char('q'), Char('w')})
}

func TestDecoderMouse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Key
	}{
		{"left down", "\x1b[<0;5;3M", []Key{MouseDown(MouseLeft, 5, 3)}},
		{"left up", "\x1b[<0;5;3m", []Key{MouseUp(MouseLeft, 5, 3)}},
		{"right down", "\x1b[<2;120;40M", []Key{MouseDown(MouseRight, 120, 40)}},
		{"middle ignored", "\x1b[<1;5;3Mx", []Key{Char('x')}},
		{"wheel ignored", "\x1b[<64;5;3Mx", []Key{Char('x')}},
		{"drag ignored", "\x1b[<32;5;3Mx", []Key{Char('x')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectKeys(t, readAll(t, chunks(tt.in)), tt.want)
		})
	}
}

func TestDecoderMouseSplitAcrossReads(t *testing.T) {
	got := readAll(t, chunks("\x1b[<0;1", "2;7", "M"))
	expectKeys(t, got, []Key{MouseDown(MouseLeft, 12, 7)})
}

func TestDecoderMalformedMouse(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing param", "\x1b[<0;5M"},
		{"empty param", "\x1b[<0;;3M"},
		{"extra param", "\x1b[<0;5;3;4M"},
		{"bad byte", "\x1b[<0;5x3M"},
		{"overflow", "\x1b[<0;99999;3M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Nothing from the report may surface, not even its tail as characters
			expectKeys(t, readAll(t, chunks(tt.in)), nil)

			// Input arriving after the dropped report still decodes
			expectKeys(t, readAll(t, chunks(tt.in, "q")), []Key{Char('q')})
		})
	}
}

func TestDecoderSkipsUTF8(t *testing.T) {
	got := readAll(t, chunks("aé€😀b"))
	expectKeys(t, got, []Key{Char('a'), Char('b')})
}

func TestDecoderZeroReads(t *testing.T) {
	r := &chunkReader{chunks: [][]byte{{}, []byte("a"), {}, []byte("b")}}
	expectKeys(t, readAll(t, r), []Key{Char('a'), Char('b')})
}

// errAfterData returns its data together with an error in one Read
type errAfterData struct {
	data []byte
	err  error
	done bool
}

func (e *errAfterData) Read(p []byte) (int, error) {
	if e.done {
		return 0, e.err
	}
	e.done = true
	return copy(p, e.data), e.err
}

func TestDecoderDataBeforeError(t *testing.T) {
	boom := errors.New("boom")
	d := NewDecoder(&errAfterData{data: []byte("xy"), err: boom})

	for _, want := range []Key{Char('x'), Char('y')} {
		k, err := d.ReadKey()
		if err != nil {
			t.Fatalf("Expected %v before the error, got error %v", want, err)
		}
		if k != want {
			t.Errorf("Expected %v, got %v", want, k)
		}
	}

	if _, err := d.ReadKey(); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{Control('C'), "Control('C')"},
		{Char('a'), "Character('a')"},
		{ArrowUp, "ArrowUp"},
		{MouseDown(MouseLeft, 5, 3), "MouseDown(Left, 5, 3)"},
		{MouseUp(MouseRight, 1, 2), "MouseUp(Right, 1, 2)"},
	}

	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}
