package timer

import (
	"fmt"

	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/memory"
)

// CKSTPR1 module standby bits. A set bit lets the module's clock run.
const (
	StandbyRTC   uint8 = 1 << 0
	StandbyFlash uint8 = 1 << 1
	StandbyB1    uint8 = 1 << 2
	StandbyADC   uint8 = 1 << 4
	StandbySCI3  uint8 = 1 << 5
)

// CKSTPR2 module standby bits.
const (
	StandbyWatchdog uint8 = 1 << 2
	StandbyW        uint8 = 1 << 6
)

// ClockSelectError reports a prescaler setting the emulated timers do not model.
type ClockSelectError struct {
	Timer  string
	Select uint8
}

func (e *ClockSelectError) Error() string {
	return fmt.Sprintf("timer: unsupported clock select %03b for timer %s", e.Select, e.Timer)
}

// Timer is the timer block. It ticks at the 32768Hz sub clock and drives
// Timer B1 and Timer W through their prescalers.
type Timer struct {
	mem    *memory.Memory
	B1     *B1
	W      *W
	cycles uint64
}

// New creates the timer block with the power-on register state.
func New(mem *memory.Memory) *Timer {
	t := &Timer{
		mem: mem,
		B1:  newB1(mem),
		W:   newW(mem),
	}

	mem.SetBits(addr.CKSTPR1, StandbyFlash|StandbyRTC)
	mem.SetBits(addr.CKSTPR2, StandbyWatchdog)

	return t
}

// Enabled reports whether mask is set in CKSTPR1, the clock gate other
// modules check before ticking.
func (t *Timer) Enabled(mask uint8) bool {
	return t.mem.PeekByte(addr.CKSTPR1)&mask != 0
}

// Cycles returns the number of timer ticks so far.
func (t *Timer) Cycles() uint64 {
	return t.cycles
}

func (t *Timer) Tick() error {
	t.cycles++

	t.B1.running = t.Enabled(StandbyB1) && t.mem.PeekByte(addr.TMB1)&B1Counting != 0
	t.W.running = t.mem.PeekByte(addr.CKSTPR2)&StandbyW != 0 && t.mem.PeekByte(addr.TMRW)&WCounting != 0

	if t.B1.running {
		rate, err := t.B1.clockRate()
		if err != nil {
			return err
		}
		if t.cycles%rate == 0 {
			t.B1.tick()
		}
	}

	if t.W.running {
		rate, err := t.W.clockRate()
		if err != nil {
			return err
		}
		if t.cycles%rate == 0 {
			t.W.tick()
		}
	}

	return nil
}
