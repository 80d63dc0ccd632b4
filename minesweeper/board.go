package minesweeper

import (
	"math/rand"
)

// Cell is one square of the board
type Cell struct {
	Mine     bool
	Revealed bool
	Flagged  bool
	Adjacent int // Mines among the eight neighbours
}

// Board holds mine layout and reveal state
// Coordinates are 0-based, x across and y down
type Board struct {
	width  int
	height int
	mines  int
	cells  []Cell

	safeCells int
	revealed  int
	flags     int
	exploded  bool

	// Mines are placed lazily on the first reveal when firstClickSafe is set
	placed         bool
	firstClickSafe bool
	rng            *rand.Rand
}

// NewBoard creates a board with mines spread uniformly
// With firstClickSafe the layout is chosen at the first reveal, keeping that cell
// and, when the board has room, its neighbours clear
func NewBoard(width, height, mines int, firstClickSafe bool, rng *rand.Rand) *Board {
	if mines > width*height-1 {
		mines = width*height - 1
	}
	b := &Board{
		width:          width,
		height:         height,
		mines:          mines,
		cells:          make([]Cell, width*height),
		safeCells:      width*height - mines,
		firstClickSafe: firstClickSafe,
		rng:            rng,
	}
	if !firstClickSafe {
		b.placeMines(-1, -1)
	}
	return b
}

// newBoardWithLayout builds a board with mines at fixed positions
func newBoardWithLayout(width, height int, mines [][2]int) *Board {
	b := &Board{
		width:     width,
		height:    height,
		mines:     len(mines),
		cells:     make([]Cell, width*height),
		safeCells: width*height - len(mines),
		placed:    true,
	}
	for _, m := range mines {
		b.cells[b.index(m[0], m[1])].Mine = true
	}
	b.countAdjacent()
	return b
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }
func (b *Board) Mines() int  { return b.mines }

// Flags returns the number of flagged cells
func (b *Board) Flags() int { return b.flags }

// At returns the cell at x, y
func (b *Board) At(x, y int) Cell {
	return b.cells[b.index(x, y)]
}

// Contains reports whether x, y is on the board
func (b *Board) Contains(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Started reports whether any cell has been revealed
func (b *Board) Started() bool { return b.revealed > 0 }

// Cleared reports whether every safe cell is revealed
func (b *Board) Cleared() bool { return b.revealed >= b.safeCells && !b.exploded }

// Exploded reports whether a mine was revealed
func (b *Board) Exploded() bool { return b.exploded }

func (b *Board) index(x, y int) int {
	return y*b.width + x
}

// neighbours calls fn for each on-board cell adjacent to x, y
func (b *Board) neighbours(x, y int, fn func(nx, ny int)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if (dx != 0 || dy != 0) && b.Contains(nx, ny) {
				fn(nx, ny)
			}
		}
	}
}

// placeMines shuffles mines over the board, excluding the zone around safeX, safeY
// Negative coordinates exclude nothing
func (b *Board) placeMines(safeX, safeY int) {
	excluded := make(map[int]bool)
	if b.Contains(safeX, safeY) {
		excluded[b.index(safeX, safeY)] = true
		// Clear the neighbours too if enough cells remain for the mines
		zone := []int{}
		b.neighbours(safeX, safeY, func(nx, ny int) {
			zone = append(zone, b.index(nx, ny))
		})
		if len(b.cells)-1-len(zone) >= b.mines {
			for _, i := range zone {
				excluded[i] = true
			}
		}
	}

	candidates := make([]int, 0, len(b.cells))
	for i := range b.cells {
		if !excluded[i] {
			candidates = append(candidates, i)
		}
	}
	b.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, i := range candidates[:b.mines] {
		b.cells[i].Mine = true
	}

	b.countAdjacent()
	b.placed = true
}

func (b *Board) countAdjacent() {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			n := 0
			b.neighbours(x, y, func(nx, ny int) {
				if b.cells[b.index(nx, ny)].Mine {
					n++
				}
			})
			b.cells[b.index(x, y)].Adjacent = n
		}
	}
}

// Reveal opens x, y, flooding outward through cells with no adjacent mines
// Flagged and already revealed cells are left alone; returns the number of cells opened
func (b *Board) Reveal(x, y int) int {
	if !b.Contains(x, y) || b.exploded {
		return 0
	}
	if !b.placed {
		b.placeMines(x, y)
	}

	opened := 0
	stack := [][2]int{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := &b.cells[b.index(p[0], p[1])]
		if c.Revealed || c.Flagged {
			continue
		}
		c.Revealed = true
		b.revealed++
		opened++

		if c.Mine {
			b.exploded = true
			continue
		}
		if c.Adjacent == 0 {
			b.neighbours(p[0], p[1], func(nx, ny int) {
				stack = append(stack, [2]int{nx, ny})
			})
		}
	}
	return opened
}

// ChordReveal reveals x, y if closed; on an open number whose flag count matches,
// it reveals every closed unflagged neighbour
func (b *Board) ChordReveal(x, y int) int {
	if !b.Contains(x, y) {
		return 0
	}
	c := b.At(x, y)
	if !c.Revealed {
		return b.Reveal(x, y)
	}

	flags := 0
	b.neighbours(x, y, func(nx, ny int) {
		if b.At(nx, ny).Flagged {
			flags++
		}
	})
	if flags != c.Adjacent {
		return 0
	}

	opened := 0
	b.neighbours(x, y, func(nx, ny int) {
		opened += b.Reveal(nx, ny)
	})
	return opened
}

// ToggleFlag flags or unflags a closed cell, reporting whether anything changed
func (b *Board) ToggleFlag(x, y int) bool {
	if !b.Contains(x, y) {
		return false
	}
	c := &b.cells[b.index(x, y)]
	if c.Revealed {
		return false
	}
	c.Flagged = !c.Flagged
	if c.Flagged {
		b.flags++
	} else {
		b.flags--
	}
	return true
}

// FlagAllMines marks every mine, used once the board is cleared
func (b *Board) FlagAllMines() {
	for i := range b.cells {
		c := &b.cells[i]
		if c.Mine && !c.Flagged {
			c.Flagged = true
			b.flags++
		}
	}
}
