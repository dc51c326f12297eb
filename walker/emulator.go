package walker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valerio/go-pokewalker/walker/board"
	"github.com/valerio/go-pokewalker/walker/debug"
	"github.com/valerio/go-pokewalker/walker/input"
	"github.com/valerio/go-pokewalker/walker/input/action"
	"github.com/valerio/go-pokewalker/walker/input/event"
	"github.com/valerio/go-pokewalker/walker/timing"
	"github.com/valerio/go-pokewalker/walker/video"
)

const (
	romSignatureAddress = 0xBF98
	romSignature        = "nintendo"

	// inputQueueSize bounds the events a backend can post between slices
	inputQueueSize = 64
)

// StepError wraps a failure from the CPU or a subsystem with the address
// of the instruction that caused it.
type StepError struct {
	PC  uint32
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step at 0x%04X: %v", e.PC, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Emulator drives a board: it owns the cycle counter, paces execution and
// forwards input from backends. Step, RunUntilFrame and Run must be called
// from a single goroutine; the other methods are safe from any goroutine.
type Emulator struct {
	board   *board.Board
	cycles  uint64
	limiter timing.Limiter
	input   *input.Manager
	events  chan input.Event

	paused atomic.Bool
	quit   atomic.Bool

	frameMu  sync.Mutex
	frame    *video.Frame
	contrast int
	state    *debug.CPUState
	frames   atomic.Uint64

	onFrame    func(frame *video.Frame, contrastDelta int)
	onSnapshot func()
}

// New creates an emulator around b.
func New(b *board.Board) *Emulator {
	e := &Emulator{
		board:   b,
		limiter: timing.NewNoOpLimiter(),
		input:   input.NewManager(b.Buttons),
		events:  make(chan input.Event, inputQueueSize),
		frame:   video.NewFrame(),
	}

	b.Lcd.OnDraw(e.draw)

	e.input.On(action.EmulatorPauseToggle, event.Press, e.TogglePause)
	e.input.On(action.EmulatorQuit, event.Press, func() { e.quit.Store(true) })
	e.input.On(action.EmulatorSnapshot, event.Press, func() {
		if e.onSnapshot != nil {
			e.onSnapshot()
		}
	})

	return e
}

// SetLimiter sets the pacing used by Run.
func (e *Emulator) SetLimiter(l timing.Limiter) {
	e.limiter = l
}

// OnFrame registers a callback run on the emulation goroutine every time
// the LCD draws. The frame must not be retained.
func (e *Emulator) OnFrame(fn func(frame *video.Frame, contrastDelta int)) {
	e.onFrame = fn
}

// OnSnapshot registers the callback for the snapshot action.
func (e *Emulator) OnSnapshot(fn func()) {
	e.onSnapshot = fn
}

func (e *Emulator) draw(frame *video.Frame, contrastDelta int) {
	e.frameMu.Lock()
	e.frame = frame.Clone()
	e.contrast = contrastDelta
	e.state = debug.Extract(e.board.CPU)
	e.frameMu.Unlock()

	e.frames.Add(1)
	if e.onFrame != nil {
		e.onFrame(frame, contrastDelta)
	}
}

// CurrentFrame returns a copy of the last drawn frame and its contrast.
func (e *Emulator) CurrentFrame() (*video.Frame, int) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	return e.frame.Clone(), e.contrast
}

// DebugState returns the CPU registers captured with the last frame, or nil
// before the first one.
func (e *Emulator) DebugState() *debug.CPUState {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	return e.state
}

// Frames returns how many frames the LCD has drawn.
func (e *Emulator) Frames() uint64 {
	return e.frames.Load()
}

func (e *Emulator) Board() *board.Board {
	return e.board
}

// Cycles returns the value of the shared cycle counter.
func (e *Emulator) Cycles() uint64 {
	return e.cycles
}

// IsPokewalkerRom reports whether the loaded image carries the walker's
// signature string.
func (e *Emulator) IsPokewalkerRom() bool {
	return e.board.Memory.ReadString(romSignatureAddress, len(romSignature)) == romSignature
}

// Step runs one CPU step and ticks the board once per cycle it consumed.
func (e *Emulator) Step() error {
	pc := e.board.CPU.GetPC()

	cycles, err := e.board.CPU.Step()
	if err != nil {
		return &StepError{PC: pc, Err: err}
	}

	for range cycles {
		e.cycles++
		if err := e.board.Tick(e.cycles); err != nil {
			return &StepError{PC: pc, Err: err}
		}
	}

	return nil
}

// RunUntilFrame steps until the LCD draws the next frame.
func (e *Emulator) RunUntilFrame() error {
	target := e.frames.Load() + 1
	for e.frames.Load() < target {
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunSlice runs one pacing slice worth of cycles.
func (e *Emulator) RunSlice() error {
	end := e.cycles + timing.CyclesPerSlice
	for e.cycles < end {
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run executes slices until ctx is cancelled, the quit action arrives or a
// step fails. Input events are applied between slices.
func (e *Emulator) Run(ctx context.Context) error {
	slog.Info("Emulator started", "pokewalker_rom", e.IsPokewalkerRom())
	defer slog.Info("Emulator stopped", "cycles", e.cycles)

	e.limiter.Reset()
	wasPaused := false

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		e.drainInput()
		if e.quit.Load() {
			return nil
		}

		if e.paused.Load() {
			wasPaused = true
			time.Sleep(timing.SliceDuration())
			continue
		}
		if wasPaused {
			wasPaused = false
			e.limiter.Reset()
		}

		if err := e.RunSlice(); err != nil {
			return err
		}
		e.limiter.WaitForNextSlice()
	}
}

func (e *Emulator) drainInput() {
	for {
		select {
		case evt := <-e.events:
			e.input.Trigger(evt.Action, evt.Type)
		default:
			return
		}
	}
}

// HandleAction queues an input event for the emulation goroutine. Events
// beyond the queue capacity are dropped.
func (e *Emulator) HandleAction(act action.Action, pressed bool) {
	evt := input.Event{Action: act, Type: event.Release}
	if pressed {
		evt.Type = event.Press
	}

	select {
	case e.events <- evt:
	default:
		slog.Warn("Input queue full, dropping event", "action", act)
	}
}

func (e *Emulator) Pause() {
	if !e.paused.Swap(true) {
		slog.Info("Emulator paused")
	}
}

func (e *Emulator) Resume() {
	if e.paused.Swap(false) {
		slog.Info("Emulator resumed")
	}
}

func (e *Emulator) TogglePause() {
	if e.paused.Load() {
		e.Resume()
	} else {
		e.Pause()
	}
}

func (e *Emulator) IsPaused() bool {
	return e.paused.Load()
}

// Quit makes Run return after the current slice.
func (e *Emulator) Quit() {
	e.quit.Store(true)
}
