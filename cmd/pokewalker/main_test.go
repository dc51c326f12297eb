package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pokewalker/walker"
	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/backend"
	"github.com/valerio/go-pokewalker/walker/board"
	"github.com/valerio/go-pokewalker/walker/input"
	"github.com/valerio/go-pokewalker/walker/input/action"
	"github.com/valerio/go-pokewalker/walker/input/event"
	"github.com/valerio/go-pokewalker/walker/memory"
	"github.com/valerio/go-pokewalker/walker/peripheral"
	"github.com/valerio/go-pokewalker/walker/video"
)

func TestLoadROM(t *testing.T) {
	dir := t.TempDir()

	small := filepath.Join(dir, "small.bin")
	require.NoError(t, os.WriteFile(small, []byte{0x01, 0x00}, 0644))
	data, err := loadROM(small)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00}, data)

	large := filepath.Join(dir, "large.bin")
	require.NoError(t, os.WriteFile(large, make([]byte, memory.Size+1), 0644))
	_, err = loadROM(large)
	assert.Error(t, err)

	_, err = loadROM(filepath.Join(dir, "missing.bin"))
	assert.Error(t, err)
}

func TestEEPROMRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.bin")

	image, err := loadEEPROM(path)
	require.NoError(t, err)
	assert.Len(t, image, peripheral.EepromSize, "missing file starts blank")

	image[0x1234] = 0x56
	require.NoError(t, saveEEPROM(path, image))

	reloaded, err := loadEEPROM(path)
	require.NoError(t, err)
	assert.Equal(t, image, reloaded)
}

func TestLoadShortEEPROMIsPadded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xAA, 0xBB}, 0644))

	image, err := loadEEPROM(path)
	require.NoError(t, err)
	require.Len(t, image, peripheral.EepromSize)
	assert.Equal(t, []byte{0xAA, 0xBB, 0x00}, image[:3])
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := parseLogLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func newTestBoard() *board.Board {
	rom := make([]byte, 0xC000)
	rom[1] = 0x10
	rom[0x10], rom[0x11] = 0x40, 0xFE
	return board.New(rom, make([]byte, peripheral.EepromSize))
}

func TestInstallPatches(t *testing.T) {
	assert.NoError(t, installPatches(newTestBoard(), false, []string{"cleanup input"}))
	assert.NoError(t, installPatches(newTestBoard(), true, nil))
	assert.Error(t, installPatches(newTestBoard(), false, []string{"no such patch"}))
}

// quitBackend asks to quit after pressing a button.
type quitBackend struct {
	updates int
}

func (q *quitBackend) Init(backend.BackendConfig) error { return nil }
func (q *quitBackend) Cleanup() error                   { return nil }

func (q *quitBackend) Update(frame *video.Frame, _ int) ([]input.Event, error) {
	q.updates++
	if q.updates == 1 {
		return []input.Event{{Action: action.WalkerCenter, Type: event.Press}}, nil
	}
	return []input.Event{{Action: action.EmulatorQuit, Type: event.Press}}, nil
}

func TestPumpFramesForwardsInput(t *testing.T) {
	emu := walker.New(newTestBoard())
	be := &quitBackend{}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, pumpFrames(ctx, emu, be))
	assert.Equal(t, 2, be.updates)

	// the queued quit makes Run return before any slice
	require.NoError(t, emu.Run(ctx))
	assert.Zero(t, emu.Cycles())
	assert.Equal(t, uint8(peripheral.ButtonCenter), emu.Board().Memory.PeekByte(addr.PDRB))
}
