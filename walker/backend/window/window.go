package window

import (
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/valerio/go-pokewalker/walker/backend"
	"github.com/valerio/go-pokewalker/walker/input"
	"github.com/valerio/go-pokewalker/walker/input/action"
	"github.com/valerio/go-pokewalker/walker/input/event"
	"github.com/valerio/go-pokewalker/walker/video"
)

const defaultScale = 6

// Backend shows the LCD in a desktop window. The window's event loop must
// own the main goroutine: call Run from main and drive Update from the
// goroutine that produces frames.
type Backend struct {
	config backend.BackendConfig
	game   *game

	mu      sync.Mutex
	pixels  []byte
	events  []input.Event
	stopped bool
}

func New() *Backend {
	b := &Backend{}
	b.game = &game{backend: b}
	return b
}

func (w *Backend) Init(config backend.BackendConfig) error {
	w.config = config

	scale := config.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	ebiten.SetWindowSize(video.Width*scale, video.Height*scale)
	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)

	slog.Info("Window backend initialized", "scale", scale)
	return nil
}

// Run blocks on the window's event loop until it is closed or Cleanup is
// called.
func (w *Backend) Run() error {
	return ebiten.RunGame(w.game)
}

// Update hands the frame to the window and returns the input seen since
// the last call.
func (w *Backend) Update(frame *video.Frame, contrastDelta int) ([]input.Event, error) {
	pixels := frame.Image(contrastDelta, 1).Pix

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pixels = pixels
	events := w.events
	w.events = nil
	return events, nil
}

func (w *Backend) Cleanup() error {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
	return nil
}

func (w *Backend) queue(evt input.Event) {
	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

func (w *Backend) quit() {
	w.queue(input.Event{Action: action.EmulatorQuit, Type: event.Press})
	if w.config.Callbacks.OnQuit != nil {
		w.config.Callbacks.OnQuit()
	}
}

// game implements ebiten.Game for the backend.
type game struct {
	backend *Backend
	lcd     *ebiten.Image
}

func (g *game) Update() error {
	w := g.backend

	if ebiten.IsWindowBeingClosed() {
		w.quit()
		return ebiten.Termination
	}

	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return ebiten.Termination
	}

	for key, act := range keyMapping {
		if inpututil.IsKeyJustPressed(key) {
			w.queue(input.Event{Action: act, Type: event.Press})
		}
		if act.IsWalkerButton() && inpututil.IsKeyJustReleased(key) {
			w.queue(input.Event{Action: act, Type: event.Release})
		}
	}

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.lcd == nil {
		g.lcd = ebiten.NewImage(video.Width, video.Height)
	}

	w := g.backend
	w.mu.Lock()
	if w.pixels != nil {
		g.lcd.WritePixels(w.pixels)
		w.pixels = nil
	}
	w.mu.Unlock()

	screen.DrawImage(g.lcd, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	return video.Width, video.Height
}

// ebitenKeyNameMap converts ebiten keys to key names used in default mappings
var ebitenKeyNameMap = map[ebiten.Key]string{
	ebiten.KeyArrowDown:  "Down",
	ebiten.KeyArrowLeft:  "Left",
	ebiten.KeyArrowRight: "Right",
	ebiten.KeyS:          "s",
	ebiten.KeyA:          "a",
	ebiten.KeyD:          "d",
	ebiten.KeyF1:         "F1",
	ebiten.KeyF2:         "F2",
	ebiten.KeySpace:      "Space",
	ebiten.KeyP:          "p",
	ebiten.KeyF9:         "F9",
	ebiten.KeyEscape:     "Escape",
	ebiten.KeyQ:          "q",
}

func buildKeyMapping() map[ebiten.Key]action.Action {
	mapping := make(map[ebiten.Key]action.Action)
	for key, keyName := range ebitenKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	return mapping
}

var keyMapping = buildKeyMapping()
