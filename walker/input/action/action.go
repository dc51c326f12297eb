package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// walker buttons
	WalkerCenter Action = iota
	WalkerLeft
	WalkerRight

	// Emulator features
	EmulatorPauseToggle
	EmulatorSnapshot
	EmulatorQuit
)

func (a Action) String() string {
	switch a {
	case WalkerCenter:
		return "WalkerCenter"
	case WalkerLeft:
		return "WalkerLeft"
	case WalkerRight:
		return "WalkerRight"
	case EmulatorPauseToggle:
		return "EmulatorPauseToggle"
	case EmulatorSnapshot:
		return "EmulatorSnapshot"
	case EmulatorQuit:
		return "EmulatorQuit"
	default:
		return "Unknown"
	}
}

// IsWalkerButton reports whether a is one of the walker's three buttons,
// which backends track as held keys rather than one-shot presses.
func (a Action) IsWalkerButton() bool {
	return a == WalkerCenter || a == WalkerLeft || a == WalkerRight
}
