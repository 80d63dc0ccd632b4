package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain streams s to exhaustion and returns the sample count and peak amplitude
func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			for _, v := range buf[i] {
				if v < 0 {
					v = -v
				}
				if v > peak {
					peak = v
				}
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestVoiceSine(t *testing.T) {
	rate := beep.SampleRate(44100)
	v := newVoice(sine, 440.0, 100*time.Millisecond, 0, 0, rate)

	samples := make([][2]float64, 100)
	n, ok := v.Stream(samples)
	if !ok || n != 100 {
		t.Fatalf("Expected 100 samples and ok, got %d %v", n, ok)
	}

	for i := 0; i < n; i++ {
		if samples[i][0] < -1.0 || samples[i][0] > 1.0 {
			t.Errorf("Sample %d out of range: %f", i, samples[i][0])
		}
		if samples[i][0] != samples[i][1] {
			t.Errorf("Sample %d: channels differ", i)
		}
	}
}

func TestVoiceLength(t *testing.T) {
	rate := beep.SampleRate(48000)
	v := newVoice(square, 220.0, 50*time.Millisecond, 5*time.Millisecond, 5*time.Millisecond, rate)

	n, _ := drain(v)
	if n != rate.N(50*time.Millisecond) {
		t.Errorf("Expected %d samples, got %d", rate.N(50*time.Millisecond), n)
	}
}

// A zero-frequency square holds +1, exposing the envelope itself
func TestVoiceEnvelope(t *testing.T) {
	rate := beep.SampleRate(48000)
	d := 20 * time.Millisecond
	v := newVoice(square, 0, d, 5*time.Millisecond, 5*time.Millisecond, rate)

	buf := make([][2]float64, rate.N(d))
	n, _ := v.Stream(buf)
	if n != len(buf) {
		t.Fatalf("Expected %d samples, got %d", len(buf), n)
	}
	if buf[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %f", buf[0][0])
	}
	for i := 0; i < n; i++ {
		if buf[i][0] > 1.0 || (i > 0 && buf[i][0] <= 0) {
			t.Errorf("Sample %d outside (0,1]: %f", i, buf[i][0])
		}
	}
	if mid := buf[n/2][0]; mid != 1.0 {
		t.Errorf("Expected full scale at sustain, got %f", mid)
	}
	if last := buf[n-1][0]; last >= 0.5 {
		t.Errorf("Expected release near silence at the end, got %f", last)
	}
}

func TestGetSoundEffect(t *testing.T) {
	tests := []struct {
		sound Sound
		min   time.Duration
	}{
		{SoundReveal, revealDuration},
		{SoundFlag, flagDuration},
		{SoundExplode, explodeDuration},
		{SoundWin, 4 * winNoteDuration},
	}

	for _, tt := range tests {
		t.Run(tt.sound.String(), func(t *testing.T) {
			st, err := GetSoundEffect(tt.sound, 1.0, sampleRate)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			n, peak := drain(st)
			if n < sampleRate.N(tt.min) {
				t.Errorf("Expected at least %d samples, got %d", sampleRate.N(tt.min), n)
			}
			if peak == 0 || peak > 1.0 {
				t.Errorf("Expected audible peak within [0,1], got %f", peak)
			}
		})
	}
}

func TestGetSoundEffectSilentAtZeroVolume(t *testing.T) {
	st, err := GetSoundEffect(SoundWin, 0, sampleRate)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, peak := drain(st); peak != 0 {
		t.Errorf("Expected silence, got peak %f", peak)
	}
}

func TestGetSoundEffectUnknown(t *testing.T) {
	if _, err := GetSoundEffect(Sound(42), 1.0, sampleRate); err != ErrUnknownSound {
		t.Errorf("Expected ErrUnknownSound, got %v", err)
	}
}

func TestPlayerUninitializedIsSilent(t *testing.T) {
	p := NewPlayer(0.5)
	// Must not touch the speaker
	p.Play(SoundExplode)
	p.Close()
	if p.mixer.Len() != 0 {
		t.Errorf("Expected empty mixer, got %d streamers", p.mixer.Len())
	}
}
