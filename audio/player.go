package audio

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// Player mixes game cues into the system speaker
// Until Init succeeds every Play is a no-op, so a machine without audio plays silently
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewPlayer creates a player at volume 0.0-1.0
func NewPlayer(volume float64) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Init opens the speaker. The speaker is process-wide, call once
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return errors.Wrap(err, "initializing speaker")
	}

	speaker.Play(p.mixer)
	p.initialized = true
	log.Printf("[AUDIO] speaker ready at %d Hz", sampleRate)
	return nil
}

// Play starts a cue without waiting for it to finish
func (p *Player) Play(s Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	st, err := GetSoundEffect(s, p.volume, sampleRate)
	if err != nil {
		log.Printf("[AUDIO] %v: %d", err, s)
		return
	}

	speaker.Lock()
	p.mixer.Add(st)
	speaker.Unlock()
}

// Close silences pending cues and releases the device
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()

	speaker.Close()
	p.initialized = false
}
