package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-pokewalker/walker/backend"
	"github.com/valerio/go-pokewalker/walker/backend/terminal/render"
	"github.com/valerio/go-pokewalker/walker/input"
	"github.com/valerio/go-pokewalker/walker/input/action"
	"github.com/valerio/go-pokewalker/walker/input/event"
	"github.com/valerio/go-pokewalker/walker/video"
)

const (
	width  = video.Width
	height = video.Height

	lcdRows        = height / 2
	debugHeight    = 20
	logCapacity    = 200
	minTermWidth   = width + 24
	minTermHeight  = lcdRows + 2
	dividerX       = width + 1
	rightPanelX    = dividerX + 2
	helpText       = " ←/a ↓/s →/d=buttons SPACE=pause F9=snapshot q=quit "
	lcdTitle       = " Pokewalker "
	registersTitle = " CPU "
	logsTitle      = " Logs "
)

// keyTimeout is how long a walker button stays held after its last key
// event. Terminals only report presses, so releases are synthesized once
// the key stops repeating.
const keyTimeout = 100 * time.Millisecond

// Backend renders the LCD with half-block characters in a terminal.
type Backend struct {
	screen    tcell.Screen
	config    backend.BackendConfig
	logBuffer *render.LogBuffer
	now       func() time.Time

	mu         sync.Mutex
	running    bool
	eventQueue []input.Event

	keyStates  map[action.Action]time.Time // last key event of each held button
	activeKeys map[action.Action]bool      // buttons reported pressed
}

func New() *Backend {
	return &Backend{now: time.Now}
}

// newWithScreen creates a backend drawing to an existing screen.
func newWithScreen(screen tcell.Screen) *Backend {
	b := New()
	b.screen = screen
	return b
}

func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.running = true

	// logs would corrupt the screen, route them to the log pane
	t.logBuffer = render.NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, config.LogLevel)))
	slog.Info("Terminal backend initialized")

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleSignals()

	return nil
}

// Update renders the frame and returns the input gathered since the last call.
func (t *Backend) Update(frame *video.Frame, contrastDelta int) ([]input.Event, error) {
	now := t.now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events := t.buttonEvents(now)

	t.mu.Lock()
	events = append(events, t.eventQueue...)
	t.eventQueue = nil
	running := t.running
	t.mu.Unlock()

	if !running {
		return events, nil
	}

	t.render(frame, contrastDelta)
	t.screen.Show()

	return events, nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

// buttonEvents turns the held key timestamps into press and release events.
func (t *Backend) buttonEvents(now time.Time) []input.Event {
	var events []input.Event
	active := make(map[action.Action]bool)

	for act, last := range t.keyStates {
		if now.Sub(last) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}
		active[act] = true
		if !t.activeKeys[act] {
			slog.Debug("Key press", "action", act)
			events = append(events, input.Event{Action: act, Type: event.Press})
		}
	}

	for act := range t.activeKeys {
		if !active[act] {
			slog.Debug("Key release", "action", act)
			events = append(events, input.Event{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = active
	return events
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer signal.Stop(signals)

	<-signals
	t.queueQuit()
}

func (t *Backend) queueQuit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.eventQueue = append(t.eventQueue, input.Event{Action: action.EmulatorQuit, Type: event.Press})
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	switch {
	case act == action.EmulatorQuit:
		t.queueQuit()
	case act.IsWalkerButton():
		t.keyStates[act] = now
	default:
		t.mu.Lock()
		t.eventQueue = append(t.eventQueue, input.Event{Action: act, Type: event.Press})
		t.mu.Unlock()
	}
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
	tcell.KeyF1:     "F1",
	tcell.KeyF2:     "F2",
	tcell.KeyF9:     "F9",
}

// tcellRuneNameMap converts runes to key names used in default mappings
var tcellRuneNameMap = map[rune]string{
	's': "s",
	'a': "a",
	'd': "d",
	'p': "p",
	'q': "q",
	' ': "Space",
}

func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.EmulatorQuit
	return mapping
}

func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)
	for r, keyName := range tcellRuneNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[r] = act
		}
	}
	return mapping
}

var (
	keyMapping  = buildKeyMapping()
	runeMapping = buildRuneMapping()
)

func (t *Backend) render(frame *video.Frame, contrastDelta int) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	t.drawBorders(termWidth, termHeight)
	t.drawLcd(frame, contrastDelta)

	logsY := 1
	if t.config.ShowDebug && t.config.Callbacks.DebugState != nil {
		t.drawRegisters(termWidth)
		logsY = debugHeight + 2
	}
	t.drawLogs(logsY, termWidth, termHeight)
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		if i >= maxWidth {
			return
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}

func (t *Backend) drawBorders(termWidth, termHeight int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	panelWidth := termWidth - rightPanelX

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	t.drawText(1, 0, dividerX-1, lcdTitle, titleStyle)

	logsTitleY := 0
	if t.config.ShowDebug && t.config.Callbacks.DebugState != nil {
		t.drawText(rightPanelX, 0, panelWidth, registersTitle, titleStyle)
		logsTitleY = debugHeight + 1
		for x := dividerX + 1; x < termWidth; x++ {
			t.screen.SetContent(x, logsTitleY, '─', nil, borderStyle)
		}
		t.screen.SetContent(dividerX, logsTitleY, '├', nil, borderStyle)
	}
	t.drawText(rightPanelX, logsTitleY, panelWidth, logsTitle, titleStyle)

	t.drawText(0, termHeight-1, termWidth, helpText, borderStyle)
}

// drawLcd packs two LCD rows per cell: the upper half block is drawn in
// the top pixel's shade over the bottom pixel's shade.
func (t *Backend) drawLcd(frame *video.Frame, contrastDelta int) {
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := shadeColor(frame.GetPixel(uint(x), uint(y)), contrastDelta)
			bottom := shadeColor(frame.GetPixel(uint(x), uint(y+1)), contrastDelta)

			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(x, y/2+1, '▀', nil, style)
		}
	}
}

func shadeColor(index uint8, contrastDelta int) tcell.Color {
	c := video.Shade(index, contrastDelta)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (t *Backend) drawRegisters(termWidth int) {
	state := t.config.Callbacks.DebugState()
	if state == nil {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range state.Lines() {
		if i >= debugHeight {
			break
		}
		t.drawText(rightPanelX, 1+i, termWidth-rightPanelX, line, style)
	}
}

func (t *Backend) drawLogs(startY, termWidth, termHeight int) {
	panelWidth := termWidth - rightPanelX
	available := termHeight - startY - 1
	if panelWidth <= 0 || available <= 0 {
		return
	}

	styles := map[slog.Level]tcell.Style{
		slog.LevelDebug: tcell.StyleDefault.Foreground(tcell.ColorGray),
		slog.LevelInfo:  tcell.StyleDefault.Foreground(tcell.ColorBlue),
		slog.LevelWarn:  tcell.StyleDefault.Foreground(tcell.ColorYellow),
		slog.LevelError: tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	}

	for i, entry := range t.logBuffer.Recent(available, t.config.LogLevel) {
		text := render.FormatLogEntry(entry)
		if len(text) > panelWidth && panelWidth > 3 {
			text = text[:panelWidth-3] + "..."
		}
		style, ok := styles[entry.Level]
		if !ok {
			style = styles[slog.LevelInfo]
		}
		t.drawText(rightPanelX, startY+i, panelWidth, text, style)
	}
}
