package timer

import (
	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/memory"
)

// TMB1 bits.
const (
	B1Counting     uint8 = 1 << 6
	b1Reserved     uint8 = 0x38
	b1ClockSelect  uint8 = 0x07
	b1Prescale256  uint8 = 0x07
	b1Prescale1024 uint8 = 0x06
)

// IRR2 request bit raised on a B1 overflow.
const b1InterruptRequest uint8 = 1 << 2

// B1 is an 8 bit up counter that reloads from the last value the firmware
// wrote to TCB1 when it overflows.
type B1 struct {
	mem     *memory.Memory
	running bool
	reload  uint8
}

func newB1(mem *memory.Memory) *B1 {
	b := &B1{mem: mem}

	mem.SetBits(addr.TMB1, b1Reserved)
	mem.HardwareWriteByte(addr.TCB1, 0)
	mem.OnWrite(addr.TCB1, func(value uint32) {
		b.reload = uint8(value)
	})

	return b
}

func (b *B1) Running() bool {
	return b.running
}

func (b *B1) Counter() uint8 {
	return b.mem.PeekByte(addr.TCB1)
}

func (b *B1) clockRate() (uint64, error) {
	switch sel := b.mem.PeekByte(addr.TMB1) & b1ClockSelect; sel {
	case b1Prescale256:
		return 256, nil
	case b1Prescale1024:
		return 1024, nil
	default:
		return 0, &ClockSelectError{Timer: "B1", Select: sel}
	}
}

func (b *B1) tick() {
	counter := b.mem.PeekByte(addr.TCB1) + 1
	if counter == 0 {
		b.mem.SetBits(addr.IRR2, b1InterruptRequest)
		counter = b.reload
	}
	b.mem.HardwareWriteByte(addr.TCB1, counter)
}
