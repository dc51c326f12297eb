package peripheral

import "fmt"

// Button is a key bit on port B.
type Button uint8

const (
	ButtonCenter Button = 1 << 0
	ButtonLeft   Button = 1 << 2
	ButtonRight  Button = 1 << 4
)

func (b Button) String() string {
	switch b {
	case ButtonCenter:
		return "Center"
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	}
	return fmt.Sprintf("Button(0x%02X)", uint8(b))
}

// PortRegister is the part of memory the buttons drive.
type PortRegister interface {
	SetBits(address uint16, mask uint8)
	ClearBits(address uint16, mask uint8)
}

// Buttons maps key presses onto the port B input register.
type Buttons struct {
	port PortRegister
}

func NewButtons(port PortRegister) *Buttons {
	return &Buttons{port: port}
}

func (b *Buttons) IsData() bool        { return false }
func (b *Buttons) IsProgressive() bool { return false }
func (b *Buttons) Reset()              {}
func (b *Buttons) device()             {}

func (b *Buttons) Press(button Button) {
	b.port.SetBits(PortB, uint8(button))
}

func (b *Buttons) Release(button Button) {
	b.port.ClearBits(PortB, uint8(button))
}
