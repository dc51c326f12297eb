package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceConstants(t *testing.T) {
	assert.Equal(t, 14400, CyclesPerSlice)
	assert.Equal(t, 3906250*time.Nanosecond, SliceDuration())
}

func TestNew(t *testing.T) {
	tests := []struct {
		pacing string
		want   Limiter
	}{
		{PacingAdaptive, &AdaptiveLimiter{}},
		{"", &AdaptiveLimiter{}},
		{PacingTicker, &TickerLimiter{}},
		{PacingOff, &noOpLimiter{}},
	}

	for _, tt := range tests {
		t.Run(tt.pacing, func(t *testing.T) {
			l, err := New(tt.pacing)
			require.NoError(t, err)
			assert.IsType(t, tt.want, l)
			if ticker, ok := l.(*TickerLimiter); ok {
				ticker.Stop()
			}
		})
	}

	_, err := New("turbo")
	assert.Error(t, err)
}

func TestAdaptiveLimiterPaces(t *testing.T) {
	const slices = 20

	l := NewAdaptiveLimiter()
	start := time.Now()
	for range slices {
		l.WaitForNextSlice()
	}
	elapsed := time.Since(start)

	// the first slice is due immediately
	assert.GreaterOrEqual(t, elapsed, (slices-1)*SliceDuration())
	assert.Less(t, elapsed, slices*SliceDuration()+200*time.Millisecond)
}

func TestAdaptiveLimiterResetsWhenBehind(t *testing.T) {
	l := NewAdaptiveLimiter()
	l.next = time.Now().Add(-time.Second)

	start := time.Now()
	l.WaitForNextSlice()
	assert.Less(t, time.Since(start), SliceDuration())
	assert.WithinDuration(t, time.Now().Add(SliceDuration()), l.next, 50*time.Millisecond)
}

func TestTickerLimiter(t *testing.T) {
	l := NewTickerLimiter()
	defer l.Stop()

	start := time.Now()
	l.WaitForNextSlice()
	l.WaitForNextSlice()
	assert.GreaterOrEqual(t, time.Since(start), SliceDuration())
}
