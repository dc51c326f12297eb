package timing

import "time"

// TickerLimiter waits on a time.Ticker. Coarser than AdaptiveLimiter but
// never spins.
type TickerLimiter struct {
	ticker *time.Ticker
}

func NewTickerLimiter() *TickerLimiter {
	return &TickerLimiter{ticker: time.NewTicker(SliceDuration())}
}

func (t *TickerLimiter) WaitForNextSlice() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(SliceDuration())
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
