package window

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pokewalker/walker/backend"
	"github.com/valerio/go-pokewalker/walker/input"
	"github.com/valerio/go-pokewalker/walker/input/action"
	"github.com/valerio/go-pokewalker/walker/input/event"
	"github.com/valerio/go-pokewalker/walker/video"
)

func TestKeyMapping(t *testing.T) {
	tests := []struct {
		key  ebiten.Key
		want action.Action
	}{
		{ebiten.KeyArrowDown, action.WalkerCenter},
		{ebiten.KeyArrowLeft, action.WalkerLeft},
		{ebiten.KeyArrowRight, action.WalkerRight},
		{ebiten.KeyA, action.WalkerLeft},
		{ebiten.KeySpace, action.EmulatorPauseToggle},
		{ebiten.KeyF9, action.EmulatorSnapshot},
		{ebiten.KeyEscape, action.EmulatorQuit},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			act, ok := keyMapping[tt.key]
			require.True(t, ok)
			assert.Equal(t, tt.want, act)
		})
	}

	assert.Len(t, keyMapping, len(ebitenKeyNameMap))
}

func TestUpdateHandsOverFrameAndEvents(t *testing.T) {
	w := New()

	quits := 0
	w.config.Callbacks.OnQuit = func() { quits++ }
	w.queue(input.Event{Action: action.WalkerRight, Type: event.Press})
	w.quit()

	frame := video.NewFrame()
	frame.SetPixel(1, 0, 3)

	events, err := w.Update(frame, 0)
	require.NoError(t, err)
	assert.Equal(t, []input.Event{
		{Action: action.WalkerRight, Type: event.Press},
		{Action: action.EmulatorQuit, Type: event.Press},
	}, events)
	assert.Equal(t, 1, quits)

	require.Len(t, w.pixels, video.Width*video.Height*4)
	dark := video.Shade(3, 0)
	assert.Equal(t, dark.R, w.pixels[4])

	events, err = w.Update(frame, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCleanupStops(t *testing.T) {
	w := New()
	require.NoError(t, w.Cleanup())
	assert.True(t, w.stopped)
}

func TestWindowImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*Backend)(nil)
}
