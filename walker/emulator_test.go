package walker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/board"
	"github.com/valerio/go-pokewalker/walker/cpu"
	"github.com/valerio/go-pokewalker/walker/input/action"
	"github.com/valerio/go-pokewalker/walker/peripheral"
	"github.com/valerio/go-pokewalker/walker/video"
)

const entry = 0x0100

// newTestEmulator boots a ROM whose reset vector points at program.
func newTestEmulator(t *testing.T, program ...byte) *Emulator {
	t.Helper()
	rom := make([]byte, 0xC000)
	rom[0], rom[1] = entry>>8, entry&0xFF
	copy(rom[entry:], program)

	clock := func() time.Time { return time.Date(2024, time.May, 5, 8, 0, 0, 0, time.UTC) }
	return New(board.New(rom, make([]byte, peripheral.EepromSize), board.WithClock(clock)))
}

// spin is BRA to itself.
var spin = []byte{0x40, 0xFE}

func TestStepAdvancesSharedCounter(t *testing.T) {
	e := newTestEmulator(t, 0x00, 0x00)

	require.NoError(t, e.Step())
	assert.Equal(t, uint64(1), e.Cycles())
	assert.Equal(t, uint32(entry+2), e.Board().CPU.GetPC())
	assert.Zero(t, e.Board().Stats().Timer, "no divisor reached yet")
}

func TestStepErrorCarriesPC(t *testing.T) {
	e := newTestEmulator(t, 0x00, 0x00, 0x0F, 0x00)

	require.NoError(t, e.Step())
	err := e.Step()
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, uint32(entry+2), stepErr.PC)

	var decodeErr *cpu.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Contains(t, err.Error(), "0x0102")
}

func TestIsPokewalkerRom(t *testing.T) {
	e := newTestEmulator(t)
	assert.False(t, e.IsPokewalkerRom())

	copy(e.Board().Memory.Data()[romSignatureAddress:], "nintendo")
	assert.True(t, e.IsPokewalkerRom())
}

func TestRunUntilFrame(t *testing.T) {
	e := newTestEmulator(t, spin...)

	var drawn int
	e.OnFrame(func(frame *video.Frame, contrastDelta int) {
		drawn++
		assert.Equal(t, uint(video.Width), frame.Width())
	})

	require.NoError(t, e.RunUntilFrame())
	assert.Equal(t, 1, drawn)
	assert.Equal(t, uint64(1), e.Frames())
	assert.Equal(t, uint64(board.LCDDivisor), e.Cycles())

	frame, contrast := e.CurrentFrame()
	assert.Equal(t, uint(video.Height), frame.Height())
	assert.Zero(t, contrast)

	state := e.DebugState()
	require.NotNil(t, state)
	assert.Equal(t, uint32(entry), state.PC)
}

func TestDebugStateBeforeFrame(t *testing.T) {
	e := newTestEmulator(t, spin...)
	assert.Nil(t, e.DebugState())
}

func TestRunSlice(t *testing.T) {
	e := newTestEmulator(t, spin...)
	require.NoError(t, e.RunSlice())
	assert.GreaterOrEqual(t, e.Cycles(), uint64(board.BeeperDivisor))
	assert.Equal(t, uint64(1), e.Board().Stats().Beeper)
}

func TestHandleAction(t *testing.T) {
	e := newTestEmulator(t, spin...)

	e.HandleAction(action.WalkerCenter, true)
	e.drainInput()
	assert.Equal(t, uint8(peripheral.ButtonCenter), e.Board().Memory.PeekByte(addr.PDRB))

	e.HandleAction(action.WalkerCenter, false)
	e.drainInput()
	assert.Zero(t, e.Board().Memory.PeekByte(addr.PDRB))

	e.HandleAction(action.EmulatorPauseToggle, true)
	e.drainInput()
	assert.True(t, e.IsPaused())
}

func TestPauseResume(t *testing.T) {
	e := newTestEmulator(t, spin...)

	e.Pause()
	e.Pause()
	assert.True(t, e.IsPaused())
	e.TogglePause()
	assert.False(t, e.IsPaused())
	e.Resume()
	assert.False(t, e.IsPaused())
}

func TestRunStops(t *testing.T) {
	t.Run("quit action", func(t *testing.T) {
		e := newTestEmulator(t, spin...)
		done := make(chan error)
		go func() { done <- e.Run(context.Background()) }()

		e.HandleAction(action.EmulatorQuit, true)
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return")
		}
	})

	t.Run("context cancelled while paused", func(t *testing.T) {
		e := newTestEmulator(t, spin...)
		e.Pause()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- e.Run(ctx) }()

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
			assert.Zero(t, e.Cycles())
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return")
		}
	})

	t.Run("step failure", func(t *testing.T) {
		e := newTestEmulator(t, 0x0F, 0x00)
		err := e.Run(context.Background())
		var stepErr *StepError
		assert.ErrorAs(t, err, &stepErr)
	})
}
