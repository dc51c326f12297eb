package board

import (
	"time"

	"github.com/valerio/go-pokewalker/walker/adc"
	"github.com/valerio/go-pokewalker/walker/cpu"
	"github.com/valerio/go-pokewalker/walker/memory"
	"github.com/valerio/go-pokewalker/walker/peripheral"
	"github.com/valerio/go-pokewalker/walker/rtc"
	"github.com/valerio/go-pokewalker/walker/sci3"
	"github.com/valerio/go-pokewalker/walker/ssu"
	"github.com/valerio/go-pokewalker/walker/timer"
)

// Clock rates, in Hz.
const (
	CPUClock    = 3686400
	TimerClock  = 32768
	SCI3Clock   = 65536
	ADCClock    = 32768
	BeeperClock = peripheral.BeeperRate
	LCDClock    = 4
)

// Divisors: CPU cycles between two ticks of a subsystem.
const (
	TimerDivisor  = CPUClock / TimerClock
	SCI3Divisor   = CPUClock / SCI3Clock
	ADCDivisor    = CPUClock / ADCClock
	BeeperDivisor = CPUClock / BeeperClock
	LCDDivisor    = CPUClock / LCDClock
	RTCDivisor    = LCDDivisor
)

// Stats counts subsystem ticks.
type Stats struct {
	SSU    uint64
	Timer  uint64
	SCI3   uint64
	ADC    uint64
	Beeper uint64
	LCD    uint64
	RTC    uint64
}

type config struct {
	packetTimeout time.Duration
	clock         rtc.Clock
}

type Option func(*config)

// WithPacketTimeout sets the idle time that ends an infrared packet.
func WithPacketTimeout(d time.Duration) Option {
	return func(c *config) { c.packetTimeout = d }
}

// WithClock sets the time source of the RTC.
func WithClock(clock rtc.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// Board wires the CPU, the on-chip modules and the walker's peripherals to
// one memory, and is the only place subsystems are ticked from.
type Board struct {
	Memory *memory.Memory
	CPU    *cpu.CPU
	SSU    *ssu.SSU
	Timer  *timer.Timer
	RTC    *rtc.RTC
	SCI3   *sci3.SCI3
	ADC    *adc.ADC

	Eeprom        *peripheral.Eeprom
	Accelerometer *peripheral.Accelerometer
	Lcd           *peripheral.Lcd
	LcdData       *peripheral.LcdData
	Beeper        *peripheral.Beeper
	Buttons       *peripheral.Buttons

	stats Stats
}

// New builds a board running rom, with eeprom as the serial EEPROM
// contents. The EEPROM image is used in place.
func New(rom, eeprom []byte, opts ...Option) *Board {
	cfg := config{packetTimeout: sci3.DefaultPacketTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	mem := memory.NewWithData("ram", rom)

	b := &Board{
		Memory: mem,
		SSU:    ssu.New(mem),
		Timer:  timer.New(mem),
		RTC:    rtc.New(mem, cfg.clock),
		SCI3:   sci3.New(mem, sci3.WithPacketTimeout(cfg.packetTimeout)),
		ADC:    adc.New(mem),
	}

	b.Eeprom = peripheral.NewEeprom(eeprom)
	b.Accelerometer = peripheral.NewAccelerometer()
	b.Lcd = peripheral.NewLcd()
	b.LcdData = peripheral.NewLcdData(b.Lcd)
	b.Beeper = peripheral.NewBeeper(b.Timer.W)
	b.Buttons = peripheral.NewButtons(mem)

	b.SSU.RegisterPeripheral(peripheral.Port1, peripheral.Pin2, b.Eeprom)
	b.SSU.RegisterPeripheral(peripheral.Port9, peripheral.Pin0, b.Accelerometer)
	b.SSU.RegisterPeripheral(peripheral.Port1, peripheral.LcdSelectPin, b.Lcd)
	b.SSU.RegisterPeripheral(peripheral.Port1, peripheral.LcdDataPin, b.LcdData)
	b.SSU.RegisterPeripheral(peripheral.Port8, peripheral.Pin2, b.Beeper)
	b.SSU.RegisterPeripheral(peripheral.PortB, peripheral.Pin0, b.Buttons)

	b.CPU = cpu.New(mem)

	return b
}

// Tick advances every subsystem whose divisor divides counter. The timer
// goes first because it owns the clock gates the others check.
func (b *Board) Tick(counter uint64) error {
	if counter%uint64(b.SSU.ClockRate()) == 0 {
		b.stats.SSU++
		if err := b.SSU.Tick(); err != nil {
			return err
		}
	}

	if counter%TimerDivisor == 0 {
		b.stats.Timer++
		if err := b.Timer.Tick(); err != nil {
			return err
		}
	}

	if counter%SCI3Divisor == 0 && b.Timer.Enabled(timer.StandbySCI3) {
		b.stats.SCI3++
		b.SCI3.Tick()
	}

	if counter%ADCDivisor == 0 && b.Timer.Enabled(timer.StandbyADC) {
		b.stats.ADC++
		b.ADC.Tick()
	}

	if counter%BeeperDivisor == 0 {
		b.stats.Beeper++
		b.Beeper.Tick()
	}

	if counter%LCDDivisor == 0 {
		b.stats.LCD++
		b.Lcd.Tick()
	}

	if counter%RTCDivisor == 0 && b.Timer.Enabled(timer.StandbyRTC) {
		b.stats.RTC++
		b.RTC.Tick()
	}

	return nil
}

// Stats returns the tick counts so far.
func (b *Board) Stats() Stats {
	return b.stats
}
