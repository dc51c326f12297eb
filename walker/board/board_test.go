package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pokewalker/walker/addr"
	"github.com/valerio/go-pokewalker/walker/peripheral"
	"github.com/valerio/go-pokewalker/walker/rtc"
	"github.com/valerio/go-pokewalker/walker/timer"
)

func fixedClock() rtc.Clock {
	at := time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	return New(make([]byte, 0xC000), make([]byte, peripheral.EepromSize), WithClock(fixedClock()))
}

func TestDivisors(t *testing.T) {
	assert.Equal(t, 112, TimerDivisor)
	assert.Equal(t, 56, SCI3Divisor)
	assert.Equal(t, 112, ADCDivisor)
	assert.Equal(t, 14400, BeeperDivisor)
	assert.Equal(t, 921600, LCDDivisor)
}

func TestScheduling(t *testing.T) {
	const n = 2_000_000

	tests := []struct {
		name    string
		standby uint8
		want    Stats
	}{
		{
			name: "power on gates",
			want: Stats{
				SSU:    n / 4,
				Timer:  n / TimerDivisor,
				Beeper: n / BeeperDivisor,
				LCD:    n / LCDDivisor,
				RTC:    n / RTCDivisor,
			},
		},
		{
			name:    "serial and converter clocks running",
			standby: timer.StandbySCI3 | timer.StandbyADC,
			want: Stats{
				SSU:    n / 4,
				Timer:  n / TimerDivisor,
				SCI3:   n / SCI3Divisor,
				ADC:    n / ADCDivisor,
				Beeper: n / BeeperDivisor,
				LCD:    n / LCDDivisor,
				RTC:    n / RTCDivisor,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard(t)
			b.Memory.SetBits(addr.CKSTPR1, tt.standby)

			for counter := uint64(1); counter <= n; counter++ {
				require.NoError(t, b.Tick(counter))
			}

			assert.Equal(t, tt.want, b.Stats())
		})
	}
}

func TestRTCGate(t *testing.T) {
	b := newTestBoard(t)
	b.Memory.ClearBits(addr.CKSTPR1, timer.StandbyRTC)

	require.NoError(t, b.Tick(LCDDivisor))
	assert.Zero(t, b.Stats().RTC)
	assert.Equal(t, uint64(1), b.Stats().LCD)
	assert.Zero(t, b.Memory.PeekByte(addr.RTCHour))

	b.Memory.SetBits(addr.CKSTPR1, timer.StandbyRTC)
	require.NoError(t, b.Tick(2*LCDDivisor))
	assert.Equal(t, uint8(0x09), b.Memory.PeekByte(addr.RTCHour))
	assert.Equal(t, uint8(0x30), b.Memory.PeekByte(addr.RTCMinute))
}

func TestTimerErrorStopsTick(t *testing.T) {
	b := newTestBoard(t)
	b.Memory.SetBits(addr.CKSTPR1, timer.StandbyB1)
	// counting with an unsupported prescaler
	b.Memory.HardwareWriteByte(addr.TMB1, timer.B1Counting)

	var selectErr *timer.ClockSelectError
	assert.ErrorAs(t, b.Tick(TimerDivisor), &selectErr)
}

func TestPeripheralsWired(t *testing.T) {
	b := newTestBoard(t)

	b.Buttons.Press(peripheral.ButtonLeft)
	assert.Equal(t, uint8(peripheral.ButtonLeft), b.Memory.PeekByte(addr.PDRB))
	b.Buttons.Release(peripheral.ButtonLeft)
	assert.Zero(t, b.Memory.PeekByte(addr.PDRB))

	assert.True(t, b.LcdData.IsData())
	assert.False(t, b.Lcd.IsData())
	assert.Equal(t, peripheral.EepromWaiting, b.Eeprom.State())
}

func TestEepromImageSharedInPlace(t *testing.T) {
	image := make([]byte, peripheral.EepromSize)
	b := New(make([]byte, 0xC000), image, WithClock(fixedClock()))
	image[0x10] = 0xAB
	assert.Equal(t, uint8(0xAB), b.Eeprom.Image()[0x10])
}

func TestEepromIsTheOnlyProgressiveDevice(t *testing.T) {
	b := newTestBoard(t)

	devices := []peripheral.Device{b.Eeprom, b.Accelerometer, b.Lcd, b.LcdData, b.Beeper, b.Buttons}
	var progressive []peripheral.Device
	for _, d := range devices {
		if d.IsProgressive() {
			progressive = append(progressive, d)
		}
	}

	require.Len(t, progressive, 1)
	assert.Same(t, b.Eeprom, progressive[0])
}
