package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Cue timing
const (
	revealDuration = 40 * time.Millisecond
	revealAttack   = 2 * time.Millisecond
	revealRelease  = 30 * time.Millisecond

	flagDuration = 70 * time.Millisecond
	flagAttack   = 3 * time.Millisecond
	flagRelease  = 50 * time.Millisecond

	explodeDuration = 450 * time.Millisecond
	explodeAttack   = 5 * time.Millisecond
	explodeRelease  = 400 * time.Millisecond

	winNoteDuration = 110 * time.Millisecond
	winAttack       = 5 * time.Millisecond
	winRelease      = 80 * time.Millisecond
)

// waveform maps a phase in [0,1) to a sample in [-1,1]
type waveform func(phase float64) float64

func sine(p float64) float64 { return math.Sin(2 * math.Pi * p) }

func square(p float64) float64 {
	if p < 0.5 {
		return 1
	}
	return -1
}

func saw(p float64) float64 { return 2*p - 1 }

func noise(float64) float64 { return rand.Float64()*2 - 1 }

// voice is one note: a waveform under a linear attack/release envelope, mono on both channels
type voice struct {
	wave  waveform
	step  float64 // Phase advance per sample
	phase float64

	pos, length     int
	attack, release int
}

func newVoice(wave waveform, freq float64, length, attack, release time.Duration, rate beep.SampleRate) *voice {
	return &voice{
		wave:    wave,
		step:    freq / float64(rate),
		length:  rate.N(length),
		attack:  rate.N(attack),
		release: rate.N(release),
	}
}

// gain is the envelope level at the current sample
func (v *voice) gain() float64 {
	switch {
	case v.pos < v.attack:
		return float64(v.pos) / float64(v.attack)
	case v.pos >= v.length-v.release:
		return float64(v.length-v.pos) / float64(v.release)
	}
	return 1
}

func (v *voice) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if v.pos >= v.length {
			return i, i > 0
		}
		s := v.wave(v.phase) * v.gain()
		samples[i] = [2]float64{s, s}

		v.phase += v.step
		v.phase -= math.Floor(v.phase)
		v.pos++
	}
	return len(samples), true
}

func (v *voice) Err() error { return nil }

// scaled applies a linear gain through beep's logarithmic volume control
// Zero has no logarithm, so it is rendered as silence
func scaled(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// createRevealSound is a short soft tick
func createRevealSound(rate beep.SampleRate) beep.Streamer {
	return scaled(newVoice(sine, 1200, revealDuration, revealAttack, revealRelease, rate), 0.4)
}

// createFlagSound is a low square blip
func createFlagSound(rate beep.SampleRate) beep.Streamer {
	return scaled(newVoice(square, 440, flagDuration, flagAttack, flagRelease, rate), 0.3)
}

// createExplodeSound layers noise over a low saw rumble
func createExplodeSound(rate beep.SampleRate) beep.Streamer {
	noise := newVoice(noise, 0, explodeDuration, explodeAttack, explodeRelease, rate)
	rumble := newVoice(saw, 55, explodeDuration, explodeAttack, explodeRelease, rate)
	return beep.Mix(
		scaled(noise, 0.6),
		scaled(rumble, 0.4),
	)
}

// createWinSound is a rising major arpeggio (C5 E5 G5 C6)
func createWinSound(rate beep.SampleRate) beep.Streamer {
	notes := []float64{523.25, 659.25, 783.99, 1046.50}
	seq := make([]beep.Streamer, len(notes))
	for i, f := range notes {
		seq[i] = newVoice(sine, f, winNoteDuration, winAttack, winRelease, rate)
	}
	return scaled(beep.Seq(seq...), 0.5)
}

// GetSoundEffect returns the streamer for a cue at the given master volume
func GetSoundEffect(s Sound, volume float64, rate beep.SampleRate) (beep.Streamer, error) {
	var st beep.Streamer
	switch s {
	case SoundReveal:
		st = createRevealSound(rate)
	case SoundFlag:
		st = createFlagSound(rate)
	case SoundExplode:
		st = createExplodeSound(rate)
	case SoundWin:
		st = createWinSound(rate)
	default:
		return nil, ErrUnknownSound
	}
	return scaled(st, volume), nil
}
