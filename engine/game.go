package engine

import (
	"github.com/lixenwraith/termsweep/terminal"
)

// Game is the contract between the loop and one concrete game
// All three methods are called from the loop goroutine only
type Game interface {
	// Render returns the full frame for the current state
	Render() *terminal.ScreenBuffer

	// ProcessKey applies one decoded key or mouse event
	ProcessKey(key terminal.Key)

	// Tick advances time-driven state by one tick
	Tick()
}
