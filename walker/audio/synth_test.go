package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pokewalker/walker/peripheral"
)

func countEdges(samples []int16) int {
	edges := 0
	for i := 1; i < len(samples); i++ {
		if samples[i] != samples[i-1] {
			edges++
		}
	}
	return edges
}

func TestSynthSquareWave(t *testing.T) {
	tests := []struct {
		name      string
		tone      peripheral.Tone
		amplitude int16
		edges     int
	}{
		{"silent", peripheral.Tone{}, 0, 0},
		{"loud 1kHz", peripheral.Tone{Frequency: 1000, FullVolume: true}, sampleAmplitude, 2000},
		{"quiet 500Hz", peripheral.Tone{Frequency: 500}, sampleAmplitude / quietDivisor, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynth(DefaultSampleRate)
			s.SetTone(tt.tone)

			samples := s.GetSamples(DefaultSampleRate)
			require.Len(t, samples, DefaultSampleRate)

			for _, v := range samples {
				assert.Contains(t, []int16{tt.amplitude, -tt.amplitude}, v)
			}
			// one second of audio has two edges per period, give or take
			// the final partial period
			assert.InDelta(t, tt.edges, countEdges(samples), 2)
		})
	}
}

func TestSynthMute(t *testing.T) {
	s := NewSynth(DefaultSampleRate)
	s.SetTone(peripheral.Tone{Frequency: 440, FullVolume: true})
	s.SetMuted(true)

	for _, v := range s.GetSamples(256) {
		assert.Zero(t, v)
	}

	s.SetMuted(false)
	assert.Equal(t, int16(sampleAmplitude), s.GetSamples(1)[0])
}

func TestSynthRead(t *testing.T) {
	s := NewSynth(DefaultSampleRate)
	s.SetTone(peripheral.Tone{Frequency: 440, FullVolume: true})

	buf := make([]byte, 9)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, int16(sampleAmplitude), int16(binary.LittleEndian.Uint16(buf)))
}
