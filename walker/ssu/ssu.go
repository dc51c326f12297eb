package ssu

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/memory"
	"github.com/valerio/go-pokewalker/walker/peripheral"
)

// SSER bits.
const (
	EnableTransmit uint8 = 1 << 7
	EnableReceive  uint8 = 1 << 6
)

// SSSR bits, shared with the signals devices raise.
const (
	StatusReceiveFull   = uint8(peripheral.ReceiveFull)
	StatusTransmitEmpty = uint8(peripheral.TransmitEmpty)
	StatusTransmitEnd   = uint8(peripheral.TransmitEnd)
)

// DefaultClockRate is the divisor in effect before the firmware writes SSMR.
const DefaultClockRate = 4

// clockRates maps the SSMR clock select bits to CPU cycles per SSU tick.
var clockRates = [8]int{256, 128, 64, 32, 16, 8, 4, 2}

// progressiveTicks is how many SSU ticks a progressive device needs per byte.
const progressiveTicks = 7

// ProtocolError reports a bus configuration the emulated unit cannot run.
type ProtocolError struct {
	Enable uint8
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("ssu: %s (SSER 0x%02X)", e.Reason, e.Enable)
}

type operation int

const (
	opTransmit operation = iota
	opTransmitAndReceive
	opReset
)

type registration struct {
	port   uint16
	pin    uint8
	device peripheral.Device

	// progress counts qualifying ticks toward progressiveTicks. The EEPROM
	// is the only progressive device on the bus, so this per-registration
	// counter is the bus counter.
	progress int
}

// SSU is the synchronous serial unit. It shares one transmit/receive
// register pair between every device, selecting devices by the state of
// their port pins.
type SSU struct {
	mem       *memory.Memory
	devices   []*registration
	clockRate int
}

// New creates the unit and installs its register hooks in mem.
func New(mem *memory.Memory) *SSU {
	s := &SSU{
		mem:       mem,
		clockRate: DefaultClockRate,
	}

	mem.OnRead(addr.SSRDR, func(uint32) {
		mem.ClearBits(addr.SSSR, StatusReceiveFull)
	})
	mem.OnWrite(addr.SSTDR, func(uint32) {
		mem.ClearBits(addr.SSSR, StatusTransmitEmpty|StatusTransmitEnd)
	})
	mem.OnWrite(addr.SSMR, func(value uint32) {
		s.clockRate = clockRates[value&0x7]
	})
	for _, port := range []uint16{addr.PDR1, addr.PDR9} {
		mem.OnWrite(port, func(uint32) {
			s.resetPort(port)
		})
	}

	return s
}

// RegisterPeripheral wires a device to a port pin. Each pin takes one device.
func (s *SSU) RegisterPeripheral(port uint16, pin uint8, device peripheral.Device) {
	for _, r := range s.devices {
		if r.port == port && r.pin == pin {
			panic(fmt.Sprintf("ssu: pin 0x%02X on port 0x%04X already registered", pin, port))
		}
	}

	s.devices = append(s.devices, &registration{port: port, pin: pin, device: device})
	sort.SliceStable(s.devices, func(i, j int) bool {
		if s.devices[i].port != s.devices[j].port {
			return s.devices[i].port < s.devices[j].port
		}
		return s.devices[i].pin < s.devices[j].pin
	})
}

// ClockRate returns the CPU cycles between two SSU ticks.
func (s *SSU) ClockRate() int {
	return s.clockRate
}

// Tick moves at most one byte across the bus.
func (s *SSU) Tick() error {
	enable := s.mem.PeekByte(addr.SSER)
	status := s.mem.PeekByte(addr.SSSR)
	pending := status&StatusTransmitEmpty == 0

	if enable&EnableTransmit == 0 {
		s.mem.SetBits(addr.SSSR, StatusTransmitEmpty)
	}

	switch {
	case enable&EnableTransmit != 0 && enable&EnableReceive != 0:
		if pending {
			s.each(opTransmitAndReceive, false)
		}
	case enable&EnableTransmit != 0:
		if pending {
			s.each(opTransmit, false)
		}
	case enable&EnableReceive != 0:
		return &ProtocolError{Enable: enable, Reason: "receive only mode is not supported"}
	}

	return nil
}

// Transmitted returns the byte in SSTDR.
func (s *SSU) Transmitted() uint8 {
	return s.mem.PeekByte(addr.SSTDR)
}

// Respond stores a device answer in SSRDR.
func (s *SSU) Respond(value uint8) {
	s.mem.HardwareWriteByte(addr.SSRDR, value)
}

func (s *SSU) Signal(flags peripheral.Signal) {
	s.mem.SetBits(addr.SSSR, uint8(flags))
}

func (s *SSU) Port(address uint16) uint8 {
	return s.mem.PeekByte(address)
}

// resetPort resets every device on port that the new pin state deselects.
func (s *SSU) resetPort(port uint16) {
	for _, r := range s.devices {
		if r.port == port && s.selected(r, true) {
			run(opReset, r.device, s)
		}
	}
}

func (s *SSU) each(op operation, inverted bool) {
	for _, r := range s.devices {
		if !s.selected(r, inverted) {
			continue
		}

		if r.device.IsProgressive() {
			r.progress++
			if r.progress < progressiveTicks {
				continue
			}
			r.progress = 0
		}

		run(op, r.device, s)
	}
}

// selected applies the pin polarity: data devices are active high, command
// devices active low.
func (s *SSU) selected(r *registration, inverted bool) bool {
	value := s.mem.PeekByte(r.port)
	if !r.device.IsData() {
		value = ^value
	}
	if inverted {
		value = ^value
	}
	return value&r.pin != 0
}

func run(op operation, device peripheral.Device, bus peripheral.Bus) {
	if op == opReset {
		device.Reset()
		return
	}

	switch d := device.(type) {
	case *peripheral.Eeprom:
		if op == opTransmitAndReceive {
			d.TransmitAndReceive(bus)
		} else {
			d.Transmit(bus)
		}
	case *peripheral.Accelerometer:
		if op == opTransmitAndReceive {
			d.TransmitAndReceive(bus)
		} else {
			d.Transmit(bus)
		}
	case *peripheral.Lcd:
		if op == opTransmitAndReceive {
			d.TransmitAndReceive(bus)
		} else {
			d.Transmit(bus)
		}
	case *peripheral.LcdData:
		if op == opTransmitAndReceive {
			d.TransmitAndReceive(bus)
		} else {
			d.Transmit(bus)
		}
	case *peripheral.Beeper, *peripheral.Buttons:
		// driven by timers and the host, nothing on the serial line
	default:
		slog.Warn("SSU has no handler for device", "type", fmt.Sprintf("%T", d))
	}
}
