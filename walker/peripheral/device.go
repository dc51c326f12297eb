package peripheral

// Signal is a set of SSU status bits raised by a device once it has
// handled the byte in the transmit register.
type Signal uint8

const (
	ReceiveFull   Signal = 1 << 1
	TransmitEmpty Signal = 1 << 2
	TransmitEnd   Signal = 1 << 3
)

// Bus is the view of the synchronous serial unit that devices talk through.
type Bus interface {
	// Transmitted returns the byte the CPU placed in the transmit register.
	Transmitted() uint8
	// Respond places a byte in the receive register.
	Respond(value uint8)
	// Signal raises status bits.
	Signal(s Signal)
	// Port returns the current value of an I/O port data register.
	Port(address uint16) uint8
}

// Device is a peripheral wired to a (port, pin) pair of the SSU. The set of
// implementations is closed: the SSU dispatches on the concrete type.
type Device interface {
	// IsData reports whether the device is selected when its pin is high.
	// Command devices are selected when their pin is low.
	IsData() bool
	// IsProgressive reports whether the device only answers every few SSU
	// ticks, like a slow serial memory.
	IsProgressive() bool
	// Reset returns the device protocol to its idle state.
	Reset()

	device()
}

// Port data registers the devices are wired to.
const (
	Port1 uint16 = 0xFFD4
	Port3 uint16 = 0xFFD6
	Port8 uint16 = 0xFFDB
	Port9 uint16 = 0xFFDC
	PortB uint16 = 0xFFDE
)

// Pins on the ports.
const (
	Pin0 uint8 = 1 << iota
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
)
