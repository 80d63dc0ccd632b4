// Package minesweeper is the terminal minesweeper played through the engine
package minesweeper

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"github.com/lixenwraith/termsweep/audio"
	"github.com/lixenwraith/termsweep/scores"
	"github.com/lixenwraith/termsweep/terminal"
)

// Difficulty selects board size and mine count
type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Expert
	difficultyCount
)

var difficulties = [difficultyCount]struct {
	name                 string
	width, height, mines int
}{
	{"beginner", 9, 9, 10},
	{"intermediate", 16, 16, 40},
	{"expert", 30, 16, 99},
}

func (d Difficulty) String() string { return difficulties[d].name }

// ParseDifficulty maps a configured name to a Difficulty
func ParseDifficulty(name string) (Difficulty, error) {
	for d := Beginner; d < difficultyCount; d++ {
		if strings.EqualFold(difficulties[d].name, name) {
			return d, nil
		}
	}
	return Beginner, errors.Errorf("unknown difficulty %q", name)
}

// Screen layout
const (
	cellWidth  = 3 // Columns per board cell
	headerRows = 1 // Rows above the board
)

// numberColors indexes by adjacent mine count
var numberColors = [9]terminal.Color{
	terminal.ColorBlack, terminal.ColorCyan, terminal.ColorGreen, terminal.ColorRed, terminal.ColorBlue,
	terminal.ColorRed, terminal.ColorGreen, terminal.ColorCyan, terminal.ColorBlack,
}

// ScoreBook stores won games and answers best times
type ScoreBook interface {
	Best(difficulty string) (time.Duration, bool, error)
	Record(r scores.Result) error
}

// SoundPlayer plays cues without blocking
type SoundPlayer interface {
	Play(s audio.Sound)
}

type outcome uint8

const (
	playing outcome = iota
	won
	lost
)

// Game implements engine.Game
type Game struct {
	difficulty Difficulty
	board      *Board
	cursorX    int
	cursorY    int
	result     outcome

	// Elapsed play time in ticks, counted between the first reveal and the result
	ticks    int
	tickRate int

	best    time.Duration
	hasBest bool

	firstClickSafe bool
	rng            *rand.Rand
	scores         ScoreBook
	sound          SoundPlayer
	session        string
}

// Option configures a Game
type Option func(*Game)

// WithScoreBook records wins and shows the best time
func WithScoreBook(s ScoreBook) Option {
	return func(g *Game) { g.scores = s }
}

// WithSound plays cues for reveals, flags and results
func WithSound(p SoundPlayer) Option {
	return func(g *Game) { g.sound = p }
}

// WithSession tags recorded results with a session ID
func WithSession(id string) Option {
	return func(g *Game) { g.session = id }
}

// WithTickRate must match the engine tick rate for the timer to read in seconds
func WithTickRate(hz int) Option {
	return func(g *Game) {
		if hz > 0 {
			g.tickRate = hz
		}
	}
}

// WithFirstClickSafe toggles deferred mine placement
func WithFirstClickSafe(on bool) Option {
	return func(g *Game) { g.firstClickSafe = on }
}

// WithRand fixes the mine layout source
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// New creates a game on a fresh board
func New(d Difficulty, opts ...Option) *Game {
	g := &Game{
		difficulty:     d,
		tickRate:       60,
		firstClickSafe: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.reset(d)
	return g
}

// reset starts a new board at difficulty d
func (g *Game) reset(d Difficulty) {
	layout := difficulties[d]
	g.difficulty = d
	g.board = NewBoard(layout.width, layout.height, layout.mines, g.firstClickSafe, g.rng)
	g.cursorX, g.cursorY = 0, 0
	g.result = playing
	g.ticks = 0
	g.loadBest()
}

func (g *Game) loadBest() {
	g.best, g.hasBest = 0, false
	if g.scores == nil {
		return
	}
	best, ok, err := g.scores.Best(g.difficulty.String())
	if err != nil {
		log.Printf("[SCORES] best time lookup: %v", err)
		return
	}
	g.best, g.hasBest = best, ok
}

// Elapsed returns the play time shown on the timer
func (g *Game) Elapsed() time.Duration {
	return time.Duration(g.ticks) * time.Second / time.Duration(g.tickRate)
}

// Tick advances the timer while a game is in progress
func (g *Game) Tick() {
	if g.result == playing && g.board.Started() {
		g.ticks++
	}
}

// ProcessKey applies one key or mouse event
func (g *Game) ProcessKey(key terminal.Key) {
	switch key {
	case terminal.Char('k'), terminal.Char('K'), terminal.ArrowUp:
		g.moveCursor(0, -1)
	case terminal.Char('j'), terminal.Char('J'), terminal.ArrowDown:
		g.moveCursor(0, 1)
	case terminal.Char('h'), terminal.Char('H'), terminal.ArrowLeft:
		g.moveCursor(-1, 0)
	case terminal.Char('l'), terminal.Char('L'), terminal.ArrowRight:
		g.moveCursor(1, 0)
	case terminal.Char('f'), terminal.Char('F'):
		g.flag()
	case terminal.Char(' '):
		g.reveal(true)
	case terminal.Char('a'), terminal.Char('A'):
		g.reveal(false)
	case terminal.Char('c'), terminal.Char('C'):
		g.reset((g.difficulty + 1) % difficultyCount)
	case terminal.Char('r'), terminal.Char('R'):
		g.reset(g.difficulty)
	default:
		if key.Kind == terminal.KeyMouseDown {
			g.click(key)
		}
	}
}

// moveCursor moves with wrap-around at every edge
func (g *Game) moveCursor(dx, dy int) {
	if g.result != playing {
		return
	}
	w, h := g.board.Width(), g.board.Height()
	g.cursorX = ((g.cursorX+dx)%w + w) % w
	g.cursorY = ((g.cursorY+dy)%h + h) % h
}

// click maps a mouse press to the cell under it: left reveals with chord, right flags
func (g *Game) click(key terminal.Key) {
	if g.result != playing {
		return
	}
	x := (key.Col - 1) / cellWidth
	y := key.Row - 1 - headerRows
	if key.Col < 1 || !g.board.Contains(x, y) {
		return
	}

	g.cursorX, g.cursorY = x, y
	switch key.Button {
	case terminal.MouseLeft:
		g.reveal(true)
	case terminal.MouseRight:
		g.flag()
	}
}

func (g *Game) reveal(chord bool) {
	if g.result != playing || g.board.At(g.cursorX, g.cursorY).Flagged {
		return
	}

	var opened int
	if chord {
		opened = g.board.ChordReveal(g.cursorX, g.cursorY)
	} else {
		opened = g.board.Reveal(g.cursorX, g.cursorY)
	}

	switch {
	case g.board.Exploded():
		g.result = lost
		g.play(audio.SoundExplode)
	case g.board.Cleared():
		g.result = won
		g.board.FlagAllMines()
		g.play(audio.SoundWin)
		g.recordWin()
	case opened > 0:
		g.play(audio.SoundReveal)
	}
}

func (g *Game) flag() {
	if g.result != playing {
		return
	}
	if g.board.ToggleFlag(g.cursorX, g.cursorY) {
		g.play(audio.SoundFlag)
	}
}

func (g *Game) play(s audio.Sound) {
	if g.sound != nil {
		g.sound.Play(s)
	}
}

func (g *Game) recordWin() {
	if g.scores == nil {
		return
	}
	elapsed := g.Elapsed()
	err := g.scores.Record(scores.Result{
		Difficulty: g.difficulty.String(),
		Elapsed:    elapsed,
		Session:    g.session,
		At:         time.Now(),
	})
	if err != nil {
		log.Printf("[SCORES] recording win: %v", err)
		return
	}
	if !g.hasBest || elapsed < g.best {
		g.best, g.hasBest = elapsed, true
	}
}

// Render draws the header, the board and the help or result text
func (g *Game) Render() *terminal.ScreenBuffer {
	screen := terminal.NewScreenBuffer()

	g.renderHeader(screen)
	screen.NewLine()

	for y := 0; y < g.board.Height(); y++ {
		for x := 0; x < g.board.Width(); x++ {
			g.renderCell(screen, x, y)
		}
		screen.NewLine()
	}

	switch g.result {
	case won:
		screen.Write(fmt.Sprintf("All safe cells revealed in %.1fs! You win! Press R to retry", g.Elapsed().Seconds()))
	case lost:
		screen.Write("You lose... Press R to retry")
	default:
		screen.Write("Arrow (or HJKL) - Move cursor, A - Reveal, Space - Reveal (Can perform \"Chord\"), F - Flag")
		screen.NewLine()
		screen.Write(fmt.Sprintf("R - Retry, C - Change difficulty (%s), Mouse - Left reveal, Right flag", g.difficulty))
	}

	return screen
}

// renderHeader centres the status line over the board
func (g *Game) renderHeader(screen *terminal.ScreenBuffer) {
	best := "---"
	if g.hasBest {
		best = fmt.Sprintf("%.1fs", g.best.Seconds())
	}
	status := fmt.Sprintf("%03d  Mines %d  Best %s",
		int(g.Elapsed().Seconds()), g.board.Mines()-g.board.Flags(), best)

	boardWidth := g.board.Width() * cellWidth
	status = runewidth.Truncate(status, boardWidth, "…")
	if pad := (boardWidth - runewidth.StringWidth(status)) / 2; pad > 0 {
		screen.Write(strings.Repeat(" ", pad))
	}
	screen.Write(status)
}

func (g *Game) renderCell(screen *terminal.ScreenBuffer, x, y int) {
	cell := g.board.At(x, y)

	bg := terminal.ColorGray
	switch {
	case g.cursorX == x && g.cursorY == y:
		bg = terminal.ColorYellow
	case cell.Revealed:
		bg = terminal.ColorWhite
	}

	switch {
	case cell.Revealed && cell.Mine:
		screen.WriteColor(" X ", terminal.ColorRed, bg)
	case cell.Revealed && cell.Adjacent > 0:
		screen.WriteColor(fmt.Sprintf(" %d ", cell.Adjacent), numberColors[cell.Adjacent], bg)
	case cell.Revealed:
		screen.WriteColor("   ", terminal.ColorWhite, bg)
	case cell.Flagged:
		screen.WriteColor("[", terminal.ColorWhite, bg)
		screen.WriteColor("F", terminal.ColorRed, bg)
		screen.WriteColor("]", terminal.ColorWhite, bg)
	case g.result == lost && cell.Mine:
		screen.WriteColor(" * ", terminal.ColorBlack, bg)
	default:
		screen.WriteColor("[ ]", terminal.ColorWhite, bg)
	}
}
