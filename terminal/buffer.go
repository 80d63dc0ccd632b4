package terminal

// Cell is one displayed character with an optional color pair
// Cells compare with ==; an unstyled cell never equals a styled one
type Cell struct {
	Rune   rune
	Fg     uint8 // SGR foreground code
	Bg     uint8 // SGR background code
	Styled bool
}

// ScreenBuffer is the frame a game wants on screen: rows of cells, built fresh each render
// Append-only: NewLine starts a row, Write and WriteColor extend the current row
type ScreenBuffer struct {
	lines [][]Cell
}

// NewScreenBuffer returns a buffer holding one empty row
func NewScreenBuffer() *ScreenBuffer {
	return &ScreenBuffer{lines: [][]Cell{{}}}
}

// Write appends s to the current row with default attributes
func (b *ScreenBuffer) Write(s string) {
	last := len(b.lines) - 1
	for _, r := range s {
		b.lines[last] = append(b.lines[last], Cell{Rune: r})
	}
}

// WriteColor appends s to the current row with the given foreground and background
func (b *ScreenBuffer) WriteColor(s string, fg, bg Color) {
	last := len(b.lines) - 1
	for _, r := range s {
		b.lines[last] = append(b.lines[last], Cell{Rune: r, Fg: uint8(fg), Bg: bg.Background(), Styled: true})
	}
}

// NewLine starts a new row
func (b *ScreenBuffer) NewLine() {
	b.lines = append(b.lines, nil)
}

// Lines returns the row count
func (b *ScreenBuffer) Lines() int {
	return len(b.lines)
}

// Line returns row y, nil when out of range
func (b *ScreenBuffer) Line(y int) []Cell {
	if y < 0 || y >= len(b.lines) {
		return nil
	}
	return b.lines[y]
}

// String returns the characters of the buffer, rows joined with newlines
// Intended for tests and logs
func (b *ScreenBuffer) String() string {
	var out []rune
	for y, line := range b.lines {
		if y > 0 {
			out = append(out, '\n')
		}
		for _, c := range line {
			out = append(out, c.Rune)
		}
	}
	return string(out)
}
