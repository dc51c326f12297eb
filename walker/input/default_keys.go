package input

import "github.com/valerio/go-pokewalker/walker/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// walker buttons
	"Down":  action.WalkerCenter,
	"Left":  action.WalkerLeft,
	"Right": action.WalkerRight,

	// Alternative keys
	"s": action.WalkerCenter,
	"a": action.WalkerLeft,
	"d": action.WalkerRight,

	// Emulator controls
	"F1":     action.EmulatorPauseToggle,
	"F2":     action.EmulatorPauseToggle,
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle,
	"F9":     action.EmulatorSnapshot,
	"Escape": action.EmulatorQuit,
	"q":      action.EmulatorQuit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
