package audio

// Provider produces mono signed 16 bit samples for playback.
type Provider interface {
	// GetSamples returns exactly count samples.
	GetSamples(count int) []int16
}

var _ Provider = (*Synth)(nil)
