package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/bit"
)

// Vector table entries. Each holds the 16 bit address of the handler.
const (
	VectorReset         uint16 = 0x0000
	VectorIRQ0          uint16 = 0x0020
	VectorIRQ1          uint16 = 0x0022
	VectorQuarterSecond uint16 = 0x002E
	VectorHalfSecond    uint16 = 0x0030
	VectorSecond        uint16 = 0x0032
	VectorMinute        uint16 = 0x0034
	VectorHour          uint16 = 0x0036
	VectorTimerB1       uint16 = 0x0042
	VectorTimerW        uint16 = 0x0046
)

// enable and flag bit positions
const (
	irq0Bit    = 0 // IENR1, IRR1
	irq1Bit    = 1 // IENR1, IRR1
	rtcBit     = 7 // IENR1
	timerB1Bit = 2 // IENR2, IRR2

	timerWOverflowBit = 7 // TIERW, TSRW
	timerWMatchABit   = 0 // TIERW, TSRW
)

// RTC sub-event flags in the RTC flag register, in priority order.
const (
	RTCQuarterSecond uint8 = 1 << 0
	RTCHalfSecond    uint8 = 1 << 1
	RTCSecond        uint8 = 1 << 2
	RTCMinute        uint8 = 1 << 3
	RTCHour          uint8 = 1 << 4
)

var rtcVectors = []struct {
	flag   uint8
	vector uint16
	name   string
}{
	{RTCQuarterSecond, VectorQuarterSecond, "rtc-quarter"},
	{RTCHalfSecond, VectorHalfSecond, "rtc-half"},
	{RTCSecond, VectorSecond, "rtc-second"},
	{RTCMinute, VectorMinute, "rtc-minute"},
	{RTCHour, VectorHour, "rtc-hour"},
}

// Interrupts is the interrupt controller. It reads the memory mapped
// enable and request registers and keeps the PC and CCR of the one
// interrupt being serviced.
type Interrupts struct {
	bus Bus

	savedPC  uint32
	savedCCR uint8
}

func NewInterrupts(bus Bus) *Interrupts {
	return &Interrupts{bus: bus}
}

// Update dispatches the highest priority pending interrupt, if any. Request
// flags are left set, the handler acknowledges them.
func (i *Interrupts) Update(c *CPU) {
	enable1 := i.bus.PeekByte(addr.IENR1)
	flag1 := i.bus.PeekByte(addr.IRR1)
	enable2 := i.bus.PeekByte(addr.IENR2)
	flag2 := i.bus.PeekByte(addr.IRR2)

	switch {
	case bit.IsSet(irq0Bit, enable1) && bit.IsSet(irq0Bit, flag1):
		i.dispatch(c, VectorIRQ0, "irq0")
	case bit.IsSet(irq1Bit, enable1) && bit.IsSet(irq1Bit, flag1):
		i.dispatch(c, VectorIRQ1, "irq1")
	case bit.IsSet(rtcBit, enable1):
		rtc := i.bus.PeekByte(addr.RTCFlag)
		for _, v := range rtcVectors {
			if rtc&v.flag != 0 {
				i.dispatch(c, v.vector, v.name)
				return
			}
		}
	case bit.IsSet(timerB1Bit, enable2) && bit.IsSet(timerB1Bit, flag2):
		i.dispatch(c, VectorTimerB1, "timer-b1")
	default:
		enableW := i.bus.PeekByte(addr.TIERW)
		flagW := i.bus.PeekByte(addr.TSRW)
		if bit.IsSet(timerWOverflowBit, enableW) && bit.IsSet(timerWOverflowBit, flagW) ||
			bit.IsSet(timerWMatchABit, enableW) && bit.IsSet(timerWMatchABit, flagW) {
			i.dispatch(c, VectorTimerW, "timer-w")
		}
	}
}

func (i *Interrupts) dispatch(c *CPU, vector uint16, name string) {
	i.savedPC = c.regs.PC()
	i.savedCCR = c.flags.CCR()

	target := i.bus.ReadShort(vector)
	slog.Debug("Interrupt", "source", name,
		"from", fmt.Sprintf("0x%04X", i.savedPC), "to", fmt.Sprintf("0x%04X", target))

	c.regs.SetPC(uint32(target))
	c.flags.I = true
	c.sleeping = false
}

// restore returns from the interrupt being serviced.
func (i *Interrupts) restore(c *CPU) {
	c.regs.SetPC(i.savedPC)
	c.flags.SetCCR(i.savedCCR)
}

// Saved returns the PC and CCR stored at the last dispatch.
func (i *Interrupts) Saved() (pc uint32, ccr uint8) {
	return i.savedPC, i.savedCCR
}
