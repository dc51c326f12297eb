package audio

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Player streams a Synth to the default audio device.
type Player struct {
	ctx     *oto.Context
	player  *oto.Player
	started bool
	mu      sync.Mutex
}

func NewPlayer(synth *Synth, sampleRate int) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio: open device: %w", err)
	}
	<-ready

	return &Player{
		ctx:    ctx,
		player: ctx.NewPlayer(synth),
	}, nil
}

func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		p.player.Play()
		p.started = true
	}
}

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = false
	return p.player.Close()
}
