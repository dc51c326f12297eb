package timing

import (
	"fmt"
	"time"
)

// Limiter paces emulation to real time, one slice of CPU cycles at a time.
type Limiter interface {
	// WaitForNextSlice blocks until the next slice is due.
	// Returns immediately if emulation is behind schedule.
	WaitForNextSlice()

	// Reset drops the accumulated schedule, used after a pause.
	Reset()
}

// NewNoOpLimiter returns a limiter that never waits (headless runs).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextSlice() {}
func (n *noOpLimiter) Reset()            {}

// H8/38606 timing. A slice is the work between two beeper updates.
const (
	CPUFrequency   = 3686400
	SlicesPerSec   = 256
	CyclesPerSlice = CPUFrequency / SlicesPerSec
)

// SliceDuration returns the real time a slice should take.
func SliceDuration() time.Duration {
	return time.Second / SlicesPerSec
}

// Pacing modes accepted by New.
const (
	PacingAdaptive = "adaptive"
	PacingTicker   = "ticker"
	PacingOff      = "off"
)

// New returns the limiter for a pacing mode.
func New(pacing string) (Limiter, error) {
	switch pacing {
	case PacingAdaptive, "":
		return NewAdaptiveLimiter(), nil
	case PacingTicker:
		return NewTickerLimiter(), nil
	case PacingOff:
		return NewNoOpLimiter(), nil
	}
	return nil, fmt.Errorf("unknown pacing %q", pacing)
}
