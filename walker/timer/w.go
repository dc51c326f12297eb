package timer

import (
	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/memory"
)

// TMRW bits.
const (
	WCounting uint8 = 1 << 7
	wReserved uint8 = 0x48
)

// TCRW bits.
const (
	WCounterClear uint8 = 1 << 7
	wClockSelect  uint8 = 0x70
	wPrescale1    uint8 = 0x4
	wPrescale4    uint8 = 0x5
	wPrescale16   uint8 = 0x6
)

const wClockShift = 4

// TSRW bits. TIERW uses the same layout for the enables.
const (
	WMatchA         uint8 = 1 << 0
	WMatchB         uint8 = 1 << 1
	WMatchC         uint8 = 1 << 2
	WMatchD         uint8 = 1 << 3
	WOverflow       uint8 = 1 << 7
	wStatusReserved uint8 = 0x70
)

// W is the 16 bit timer with four general registers. The walker uses it to
// drive the piezo: GRA is the period, GRB/GRC the duty.
type W struct {
	mem     *memory.Memory
	running bool
}

func newW(mem *memory.Memory) *W {
	mem.HardwareWriteByte(addr.TMRW, wReserved)
	mem.HardwareWriteShort(addr.TCNT, 0)
	mem.HardwareWriteByte(addr.TIERW, wStatusReserved)
	mem.HardwareWriteByte(addr.TSRW, wStatusReserved)
	for _, gr := range []uint16{addr.GRA, addr.GRB, addr.GRC, addr.GRD} {
		mem.HardwareWriteShort(gr, 0xFFFF)
	}

	return &W{mem: mem}
}

func (w *W) Running() bool     { return w.running }
func (w *W) Counter() uint16   { return w.mem.PeekShort(addr.TCNT) }
func (w *W) RegisterA() uint16 { return w.mem.PeekShort(addr.GRA) }
func (w *W) RegisterB() uint16 { return w.mem.PeekShort(addr.GRB) }
func (w *W) RegisterC() uint16 { return w.mem.PeekShort(addr.GRC) }
func (w *W) RegisterD() uint16 { return w.mem.PeekShort(addr.GRD) }
func (w *W) Status() uint8     { return w.mem.PeekByte(addr.TSRW) }

func (w *W) clockRate() (uint64, error) {
	switch sel := (w.mem.PeekByte(addr.TCRW) & wClockSelect) >> wClockShift; sel {
	case wPrescale1:
		return 1, nil
	case wPrescale4:
		return 4, nil
	case wPrescale16:
		return 16, nil
	default:
		return 0, &ClockSelectError{Timer: "W", Select: sel}
	}
}

// tick counts up, raising the overflow flag on wrap and compare match A when
// the counter reaches GRA. The CPU takes the interrupt from TSRW/TIERW.
func (w *W) tick() {
	counter := w.Counter() + 1

	if counter == 0 {
		w.mem.SetBits(addr.TSRW, WOverflow)
	}

	if counter >= w.RegisterA() {
		if w.mem.PeekByte(addr.TCRW)&WCounterClear != 0 {
			counter = 0
		}
		w.mem.SetBits(addr.TSRW, WMatchA)
	}

	w.mem.HardwareWriteShort(addr.TCNT, counter)
}
