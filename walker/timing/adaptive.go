package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter sleeps for most of the wait and spins for the rest,
// correcting drift once per second.
type AdaptiveLimiter struct {
	target  time.Duration
	next    time.Time
	started time.Time
	slices  int64
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	now := time.Now()
	return &AdaptiveLimiter{
		target:  SliceDuration(),
		next:    now,
		started: now,
	}
}

func (a *AdaptiveLimiter) WaitForNextSlice() {
	now := time.Now()
	wait := a.next.Sub(now)

	if wait > 0 {
		if wait >= 2*time.Millisecond {
			time.Sleep(wait - time.Millisecond)
		}
		for time.Now().Before(a.next) {
			// spin, sleep granularity is too coarse for a 4ms slice
		}
	} else if wait < -50*time.Millisecond {
		// too far behind to catch up, start over from now
		a.next = now
	}

	a.next = a.next.Add(a.target)
	a.slices++

	if a.slices%SlicesPerSec == 0 {
		actual := time.Now()
		drift := actual.Sub(a.next)

		if drift.Abs() > 10*time.Millisecond {
			a.next = a.next.Add(drift / 10)
			slog.Debug("Slice timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"speed", float64(a.slices)*float64(a.target)/float64(actual.Sub(a.started)))
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.next = time.Now()
	a.started = a.next
	a.slices = 0
}
