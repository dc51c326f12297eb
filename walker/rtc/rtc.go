package rtc

import (
	"time"

	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/bit"
	"github.com/valerio/go-pokewalker/walker/memory"
)

// RTCFLG bits, one per periodic interrupt.
const (
	FlagQuarterSecond uint8 = 1 << 0
	FlagHalfSecond    uint8 = 1 << 1
	FlagSecond        uint8 = 1 << 2
	FlagMinute        uint8 = 1 << 3
	FlagHour          uint8 = 1 << 4

	flagAll = FlagQuarterSecond | FlagHalfSecond | FlagSecond | FlagMinute | FlagHour
)

// Clock returns the current wall time.
type Clock func() time.Time

// RTC mirrors the host clock into the BCD time registers and raises the
// periodic interrupt flags. It is ticked four times per second.
type RTC struct {
	mem         *memory.Memory
	now         Clock
	quarters    uint64
	last        time.Time
	initialized bool
}

// New creates the RTC. A nil clock uses time.Now.
func New(mem *memory.Memory, now Clock) *RTC {
	if now == nil {
		now = time.Now
	}
	return &RTC{mem: mem, now: now}
}

// Tick runs one quarter second step. The first tick loads the registers and
// raises every flag so the firmware sees a consistent time at start up.
func (r *RTC) Tick() {
	if !r.initialized {
		r.initialized = true
		r.update()
		r.mem.SetBits(addr.RTCFlag, flagAll)
		return
	}
	r.update()
}

func (r *RTC) update() {
	now := r.now()

	r.mem.HardwareWriteByte(addr.RTCSecond, bit.ToBCD(now.Second()))
	r.mem.HardwareWriteByte(addr.RTCMinute, bit.ToBCD(now.Minute()))
	r.mem.HardwareWriteByte(addr.RTCHour, bit.ToBCD(now.Hour()))
	r.mem.HardwareWriteByte(addr.RTCDay, bit.ToBCD(now.Day()))

	r.quarters++

	flags := FlagQuarterSecond
	if r.quarters%2 == 0 {
		flags |= FlagHalfSecond
	}
	if now.Second() != r.last.Second() {
		flags |= FlagSecond
	}
	if now.Minute() != r.last.Minute() {
		flags |= FlagMinute
	}
	if now.Hour() != r.last.Hour() {
		flags |= FlagHour
	}
	r.mem.SetBits(addr.RTCFlag, flags)

	r.last = now
}
