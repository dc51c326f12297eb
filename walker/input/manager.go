package input

import (
	"time"

	"github.com/valerio/go-pokewalker/walker/input/action"
	"github.com/valerio/go-pokewalker/walker/input/event"
	"github.com/valerio/go-pokewalker/walker/peripheral"
)

const (
	// debounceDuration is the minimum time between two presses of an
	// emulator action
	debounceDuration = 300 * time.Millisecond
)

// Event is one input from a backend.
type Event struct {
	Action action.Action
	Type   event.Type
}

// ButtonPad is the walker's button port.
type ButtonPad interface {
	Press(b peripheral.Button)
	Release(b peripheral.Button)
}

// Manager routes input: walker buttons go straight to the button port,
// emulator actions run the registered callbacks. It is not safe for
// concurrent use, the emulator drives it from its own goroutine.
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]time.Time
	buttons       ButtonPad
	now           func() time.Time
}

func NewManager(buttons ButtonPad) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]time.Time),
		buttons:       buttons,
		now:           time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if button, ok := walkerButton(act); ok {
		if m.buttons == nil {
			return
		}
		switch evt {
		case event.Press:
			m.buttons.Press(button)
		case event.Release:
			m.buttons.Release(button)
		}
		return
	}

	// key repeat must not toggle pause back and forth
	if evt == event.Press {
		now := m.now()
		if now.Sub(m.lastTriggered[act]) < debounceDuration {
			return
		}
		m.lastTriggered[act] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

func walkerButton(act action.Action) (peripheral.Button, bool) {
	switch act {
	case action.WalkerCenter:
		return peripheral.ButtonCenter, true
	case action.WalkerLeft:
		return peripheral.ButtonLeft, true
	case action.WalkerRight:
		return peripheral.ButtonRight, true
	default:
		return 0, false
	}
}
