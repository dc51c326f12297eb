package audio

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/valerio/go-pokewalker/walker/peripheral"
)

const (
	DefaultSampleRate = 44100

	// amplitude of a full volume square wave
	sampleAmplitude = 6000
	// the piezo has two levels, the quiet one is a quarter of the loud one
	quietDivisor = 4
)

// Synth renders the beeper tone as a square wave. SetTone is called from
// the emulation goroutine, reads come from the audio driver.
type Synth struct {
	mu         sync.Mutex
	sampleRate float64
	tone       peripheral.Tone
	phase      float64
	muted      bool
}

func NewSynth(sampleRate int) *Synth {
	return &Synth{sampleRate: float64(sampleRate)}
}

// SetTone changes the tone played from the next sample on.
func (s *Synth) SetTone(t peripheral.Tone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Silent() {
		s.phase = 0
	}
	s.tone = t
}

// SetMuted silences the output without losing the current tone.
func (s *Synth) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

func (s *Synth) GetSamples(count int) []int16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := make([]int16, count)
	if s.muted || s.tone.Silent() {
		return samples
	}

	amplitude := int16(sampleAmplitude)
	if !s.tone.FullVolume {
		amplitude /= quietDivisor
	}

	step := s.tone.Frequency / s.sampleRate
	for i := range samples {
		if s.phase < 0.5 {
			samples[i] = amplitude
		} else {
			samples[i] = -amplitude
		}
		s.phase = math.Mod(s.phase+step, 1)
	}
	return samples
}

// Read fills p with little endian samples, so a Synth can be handed to an
// audio player as its source. It never fails.
func (s *Synth) Read(p []byte) (int, error) {
	n := len(p) / 2
	for i, v := range s.GetSamples(n) {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(v))
	}
	return n * 2, nil
}
