package peripheral

import (
	"fmt"
	"log/slog"
)

// EepromSize is the size of the serial EEPROM image, 64KiB.
const EepromSize = 0x10000

// Serial EEPROM commands.
const (
	CommandWriteStatus  uint8 = 0x01
	CommandWrite        uint8 = 0x02
	CommandRead         uint8 = 0x03
	CommandWriteDisable uint8 = 0x04
	CommandReadStatus   uint8 = 0x05
	CommandWriteEnable  uint8 = 0x06
)

// StatusWriteEnabled is the write enable latch in the EEPROM status register.
const StatusWriteEnabled uint8 = 1 << 1

// eepromPageSize bounds the write offset, writes wrap inside a page.
const eepromPageSize = 128

type EepromState int

const (
	EepromWaiting EepromState = iota
	EepromGettingStatus
	EepromGettingHighAddress
	EepromGettingLowAddress
	EepromGettingBytes
)

func (s EepromState) String() string {
	switch s {
	case EepromWaiting:
		return "Waiting"
	case EepromGettingStatus:
		return "GettingStatus"
	case EepromGettingHighAddress:
		return "GettingHighAddress"
	case EepromGettingLowAddress:
		return "GettingLowAddress"
	case EepromGettingBytes:
		return "GettingBytes"
	}
	return fmt.Sprintf("EepromState(%d)", int(s))
}

// Eeprom is the serial EEPROM holding the walker's persistent data.
type Eeprom struct {
	image  []byte
	state  EepromState
	status uint8
	high   uint8
	low    uint8
	offset uint16
}

// NewEeprom wraps image, which is used in place (not copied).
func NewEeprom(image []byte) *Eeprom {
	return &Eeprom{image: image}
}

func (e *Eeprom) IsData() bool        { return false }
func (e *Eeprom) IsProgressive() bool { return true }
func (e *Eeprom) device()             {}

func (e *Eeprom) Reset() {
	e.state = EepromWaiting
	e.offset = 0
}

// Image returns the backing EEPROM contents.
func (e *Eeprom) Image() []byte {
	return e.image
}

// State returns the current protocol state.
func (e *Eeprom) State() EepromState {
	return e.state
}

// Offset returns the number of bytes moved since the address was latched.
func (e *Eeprom) Offset() uint16 {
	return e.offset
}

// Status returns the EEPROM status register.
func (e *Eeprom) Status() uint8 {
	return e.status
}

// TransmitAndReceive handles a full duplex exchange: command and address
// bytes are consumed, and data bytes are answered from the image.
func (e *Eeprom) TransmitAndReceive(bus Bus) {
	value := bus.Transmitted()

	switch e.state {
	case EepromWaiting:
		switch value {
		case CommandRead:
			e.state = EepromGettingHighAddress
		case CommandReadStatus:
			e.state = EepromGettingStatus
		}
	case EepromGettingStatus:
		bus.Respond(e.status)
		bus.Signal(TransmitEnd)
	case EepromGettingHighAddress:
		e.high = value
		e.state = EepromGettingLowAddress
	case EepromGettingLowAddress:
		e.low = value
		e.state = EepromGettingBytes
	case EepromGettingBytes:
		bus.Respond(e.read(e.address() + e.offset))
		e.offset++
		bus.Signal(TransmitEnd)
	}

	bus.Signal(ReceiveFull | TransmitEmpty)
}

// Transmit handles a write only exchange: commands, addresses and data
// bytes written into the image.
func (e *Eeprom) Transmit(bus Bus) {
	value := bus.Transmitted()

	switch e.state {
	case EepromWaiting:
		switch value {
		case CommandWriteEnable:
			e.status |= StatusWriteEnabled
			bus.Signal(TransmitEnd)
		case CommandWriteDisable:
			e.status &^= StatusWriteEnabled
			bus.Signal(TransmitEnd)
		case CommandWrite, CommandRead:
			e.state = EepromGettingHighAddress
		}
	case EepromGettingHighAddress:
		e.high = value
		e.state = EepromGettingLowAddress
	case EepromGettingLowAddress:
		e.low = value
		e.state = EepromGettingBytes
	case EepromGettingBytes:
		e.write(e.address()+e.offset, value)
		e.offset = (e.offset + 1) % eepromPageSize
		bus.Signal(TransmitEnd)
	}

	bus.Signal(TransmitEmpty)
}

func (e *Eeprom) address() uint16 {
	return uint16(e.high)<<8 | uint16(e.low)
}

func (e *Eeprom) read(address uint16) uint8 {
	if int(address) >= len(e.image) {
		slog.Debug("EEPROM read outside image", "addr", fmt.Sprintf("0x%04X", address))
		return 0
	}
	return e.image[address]
}

func (e *Eeprom) write(address uint16, value uint8) {
	if int(address) >= len(e.image) {
		slog.Debug("EEPROM write outside image", "addr", fmt.Sprintf("0x%04X", address))
		return
	}
	e.image[address] = value
}
