package peripheral

// BeeperRate is how many times per second the beeper reports its tone.
const BeeperRate = 256

// beeperClock is the Timer W input clock driving the piezo, in Hz.
const beeperClock = 31500.0

// Tone is what the piezo is playing.
type Tone struct {
	Frequency  float64
	FullVolume bool
}

// Silent reports whether nothing is playing.
func (t Tone) Silent() bool {
	return t.Frequency == 0
}

// ToneSource is the timer generating the piezo waveform: register A sets
// the period, B and C the duty.
type ToneSource interface {
	Running() bool
	RegisterA() uint16
	RegisterB() uint16
	RegisterC() uint16
}

// Beeper samples the tone timer and reports the result to the audio sink.
type Beeper struct {
	source ToneSource
	sink   func(Tone)
	last   Tone
}

func NewBeeper(source ToneSource) *Beeper {
	return &Beeper{source: source}
}

func (b *Beeper) IsData() bool        { return false }
func (b *Beeper) IsProgressive() bool { return false }
func (b *Beeper) Reset()              {}
func (b *Beeper) device()             {}

// OnTone sets the audio sink called on every Tick.
func (b *Beeper) OnTone(sink func(Tone)) {
	b.sink = sink
}

// Tone returns the tone reported by the last Tick.
func (b *Beeper) Tone() Tone {
	return b.last
}

func (b *Beeper) Tick() {
	var tone Tone
	if period := b.source.RegisterA(); b.source.Running() && period != 0 {
		tone.Frequency = beeperClock / float64(period)
	}
	tone.FullVolume = b.source.RegisterB() == b.source.RegisterC()

	b.last = tone
	if b.sink != nil {
		b.sink(tone)
	}
}
