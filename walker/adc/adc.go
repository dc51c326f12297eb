package adc

import (
	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/memory"
)

// ADSR bits.
const StartFlag uint8 = 1 << 7

// AMR channel select.
const channelMask uint8 = 0x0F

// DefaultLevel is the 10 bit reading returned on every channel, a healthy
// battery voltage.
const DefaultLevel uint16 = 0x3FF

// ADC is the 10 bit converter. A conversion started through ADSR completes
// on the next tick with the level configured for the selected channel.
type ADC struct {
	mem    *memory.Memory
	levels map[uint8]uint16
}

func New(mem *memory.Memory) *ADC {
	return &ADC{mem: mem, levels: map[uint8]uint16{}}
}

// SetLevel sets the reading for an analog channel.
func (a *ADC) SetLevel(channel uint8, level uint16) {
	a.levels[channel&channelMask] = level & 0x3FF
}

func (a *ADC) level(channel uint8) uint16 {
	if level, ok := a.levels[channel]; ok {
		return level
	}
	return DefaultLevel
}

func (a *ADC) Tick() {
	if a.mem.PeekByte(addr.ADSR)&StartFlag == 0 {
		return
	}

	channel := a.mem.PeekByte(addr.AMR) & channelMask
	// the result is left aligned in ADRR
	a.mem.HardwareWriteShort(addr.ADRR, a.level(channel)<<6)
	a.mem.ClearBits(addr.ADSR, StartFlag)
}
