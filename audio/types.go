package audio

import (
	"github.com/pkg/errors"
)

// Sound identifies a game cue
type Sound int

const (
	SoundReveal  Sound = iota // Cell opened
	SoundFlag                 // Flag placed or removed
	SoundExplode              // Mine hit
	SoundWin                  // Board cleared
	soundCount
)

var soundNames = [soundCount]string{"reveal", "flag", "explode", "win"}

func (s Sound) String() string {
	if s < 0 || s >= soundCount {
		return "unknown"
	}
	return soundNames[s]
}

// ErrUnknownSound is returned for a Sound outside the defined cues
var ErrUnknownSound = errors.New("unknown sound")
