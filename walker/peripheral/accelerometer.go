package peripheral

// AccelerometerBankSize is the number of registers the accelerometer exposes.
const AccelerometerBankSize = 0x80

type AccelerometerState int

const (
	AccelerometerGettingAddress AccelerometerState = iota
	AccelerometerGettingData
)

// Accelerometer is the SPI motion sensor. The first byte of a transfer
// selects a register; the following bytes read or write consecutive
// registers from there.
type Accelerometer struct {
	bank    [AccelerometerBankSize]uint8
	state   AccelerometerState
	address uint8
	offset  uint8
}

func NewAccelerometer() *Accelerometer {
	return &Accelerometer{}
}

func (a *Accelerometer) IsData() bool        { return false }
func (a *Accelerometer) IsProgressive() bool { return false }
func (a *Accelerometer) device()             {}

func (a *Accelerometer) Reset() {
	a.state = AccelerometerGettingAddress
	a.offset = 0
}

// Register returns the value of a sensor register.
func (a *Accelerometer) Register(address uint8) uint8 {
	return a.bank[address%AccelerometerBankSize]
}

// SetRegister lets the host feed sensor readings.
func (a *Accelerometer) SetRegister(address, value uint8) {
	a.bank[address%AccelerometerBankSize] = value
}

func (a *Accelerometer) State() AccelerometerState {
	return a.state
}

func (a *Accelerometer) TransmitAndReceive(bus Bus) {
	switch a.state {
	case AccelerometerGettingAddress:
		a.latch(bus.Transmitted())
		bus.Respond(0)
	case AccelerometerGettingData:
		bus.Respond(a.bank[a.cursor()])
		a.offset++
	}

	bus.Signal(ReceiveFull | TransmitEmpty | TransmitEnd)
}

func (a *Accelerometer) Transmit(bus Bus) {
	switch a.state {
	case AccelerometerGettingAddress:
		a.latch(bus.Transmitted())
	case AccelerometerGettingData:
		a.bank[a.cursor()] = bus.Transmitted()
		a.offset++
	}

	bus.Signal(TransmitEmpty | TransmitEnd)
}

// latch stores the register address; bit 7 is the read/write direction.
func (a *Accelerometer) latch(value uint8) {
	a.address = value & (AccelerometerBankSize - 1)
	a.offset = 0
	a.state = AccelerometerGettingData
}

func (a *Accelerometer) cursor() uint8 {
	return (a.address + a.offset) % AccelerometerBankSize
}
