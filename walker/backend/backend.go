package backend

import (
	"log/slog"

	"github.com/valerio/go-pokewalker/walker/debug"
	"github.com/valerio/go-pokewalker/walker/input"
	"github.com/valerio/go-pokewalker/walker/video"
)

// Backend represents a front end for the walker (rendering + input).
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, window, files)
// - Translating platform-specific input events to input events
type Backend interface {
	// Init configures the backend. It is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the frame and returns the input events seen since the
	// last call.
	Update(frame *video.Frame, contrastDelta int) ([]input.Event, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title     string
	Scale     int
	ShowDebug bool       // Backends may ignore unsupported features
	LogLevel  slog.Level // Minimum level shown by backends that capture logs
	Callbacks BackendCallbacks
}

// BackendCallbacks allows backends to communicate with the emulator
type BackendCallbacks struct {
	OnQuit func() // Backend requests shutdown (e.g., window close)

	// DebugState provides the CPU registers for debug panes (optional).
	DebugState func() *debug.CPUState
}
