// @lixen: #focus{sys[term,io,output]}
// @lixen: #interact{trigger[output,ansi]}
package terminal

import (
	"bufio"
	"io"
)

// Renderer reconciles the terminal with successive ScreenBuffers by cell-level diffing
// It retains what it last drew and writes only the cells that changed
type Renderer struct {
	writer *bufio.Writer

	// Retained state: what is on the physical terminal, grown and truncated per cell
	lines [][]Cell
}

// NewRenderer creates a renderer writing to w, assuming a blank screen
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{
		writer: bufio.NewWriterSize(w, 16*1024),
		lines:  [][]Cell{{}},
	}
}

// Render writes the difference between the retained state and next, then retains next
// Nothing is written when next matches the retained state
// On a write error the frame is abandoned and retained state may be ahead of the terminal
func (r *Renderer) Render(next *ScreenBuffer) error {
	for len(r.lines) < len(next.lines) {
		r.lines = append(r.lines, nil)
	}

	wrote := false
	for y := range r.lines {
		dirty, err := r.diffRow(y, next.Line(y))
		if err != nil {
			return err
		}
		wrote = wrote || dirty
	}

	if !wrote {
		return nil
	}

	// Park the cursor below the rendered region
	writeCursorPos(r.writer, 0, len(r.lines))
	return r.writer.Flush()
}

// diffRow reconciles retained row y with the requested cells
func (r *Renderer) diffRow(y int, next []Cell) (bool, error) {
	w := r.writer
	dirty := false

	for x := 0; ; x++ {
		old := r.lines[y]
		hasOld := x < len(old)
		hasNew := x < len(next)

		switch {
		case hasOld && hasNew:
			if old[x] == next[x] {
				continue
			}
			old[x] = next[x]
			if err := writeCell(w, x, y, next[x]); err != nil {
				return dirty, err
			}
			dirty = true

		case hasNew:
			r.lines[y] = append(old, next[x])
			if err := writeCell(w, x, y, next[x]); err != nil {
				return dirty, err
			}
			dirty = true

		case hasOld:
			// Row shrank: blank the tail and stop, nothing beyond is old or new
			n := len(old) - x
			r.lines[y] = old[:x]
			writeCursorPos(w, x, y)
			var err error
			for range n {
				err = w.WriteByte(' ')
			}
			return true, err

		default:
			return dirty, nil
		}
	}
}

// writeCell positions the cursor and writes one cell
// Styled cells carry their own set/reset pair so no attribute leaks into the next write
func writeCell(w *bufio.Writer, x, y int, c Cell) error {
	writeCursorPos(w, x, y)

	if !c.Styled {
		_, err := w.WriteRune(c.Rune)
		return err
	}

	w.Write(csi)
	writeInt(w, int(c.Fg))
	w.WriteByte(';')
	writeInt(w, int(c.Bg))
	w.WriteByte('m')
	w.WriteRune(c.Rune)
	_, err := w.Write(csiSGR0)
	return err
}
