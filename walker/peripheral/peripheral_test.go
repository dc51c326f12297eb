package peripheral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pokewalker/walker/video"
)

type fakeBus struct {
	transmit uint8
	receive  uint8
	status   Signal
	ports    map[uint16]uint8
}

func newFakeBus() *fakeBus {
	return &fakeBus{ports: map[uint16]uint8{}}
}

func (b *fakeBus) Transmitted() uint8        { return b.transmit }
func (b *fakeBus) Respond(value uint8)       { b.receive = value }
func (b *fakeBus) Signal(s Signal)           { b.status |= s }
func (b *fakeBus) Port(address uint16) uint8 { return b.ports[address] }

// load puts a byte in the transmit register the way a CPU write does.
func (b *fakeBus) load(value uint8) {
	b.transmit = value
	b.status &^= TransmitEmpty | TransmitEnd
}

func TestEepromRead(t *testing.T) {
	image := make([]byte, EepromSize)
	image[0x0100] = 0xAA
	image[0x0101] = 0xBB
	image[0x0102] = 0xCC

	e := NewEeprom(image)
	bus := newFakeBus()

	bus.load(CommandWriteEnable)
	e.Transmit(bus)
	assert.Equal(t, StatusWriteEnabled, e.Status())
	assert.Equal(t, EepromWaiting, e.State())

	for _, b := range []uint8{CommandRead, 0x01, 0x00} {
		bus.load(b)
		e.TransmitAndReceive(bus)
	}
	require.Equal(t, EepromGettingBytes, e.State())

	for i, expected := range []uint8{0xAA, 0xBB, 0xCC} {
		bus.load(0x00)
		e.TransmitAndReceive(bus)
		assert.Equal(t, expected, bus.receive)
		assert.Equal(t, uint16(i+1), e.Offset())
		assert.NotZero(t, bus.status&ReceiveFull)
		assert.NotZero(t, bus.status&TransmitEnd)
	}

	e.Reset()
	assert.Equal(t, EepromWaiting, e.State())
	assert.Zero(t, e.Offset())
}

func TestEepromStatus(t *testing.T) {
	e := NewEeprom(make([]byte, EepromSize))
	bus := newFakeBus()

	bus.load(CommandWriteEnable)
	e.Transmit(bus)

	bus.load(CommandReadStatus)
	e.TransmitAndReceive(bus)
	bus.load(0x00)
	e.TransmitAndReceive(bus)
	assert.Equal(t, StatusWriteEnabled, bus.receive)

	e.Reset()
	bus.load(CommandWriteDisable)
	e.Transmit(bus)
	assert.Zero(t, e.Status())
}

func TestEepromWrite(t *testing.T) {
	t.Run("bytes land at the latched address", func(t *testing.T) {
		image := make([]byte, EepromSize)
		e := NewEeprom(image)
		bus := newFakeBus()

		for _, b := range []uint8{CommandWrite, 0x02, 0x10, 0x11, 0x22} {
			bus.load(b)
			e.Transmit(bus)
		}

		assert.Equal(t, []byte{0x11, 0x22}, image[0x0210:0x0212])
		assert.NotZero(t, bus.status&TransmitEmpty)
	})

	t.Run("offset wraps inside the page", func(t *testing.T) {
		image := make([]byte, EepromSize)
		e := NewEeprom(image)
		bus := newFakeBus()

		for _, b := range []uint8{CommandWrite, 0x00, 0x00} {
			bus.load(b)
			e.Transmit(bus)
		}
		for i := 0; i < eepromPageSize+1; i++ {
			bus.load(uint8(i + 1))
			e.Transmit(bus)
		}

		assert.Equal(t, uint8(eepromPageSize+1), image[0], "the 129th byte overwrites the first")
		assert.Equal(t, uint8(2), image[1])
		assert.Zero(t, image[eepromPageSize])
	})

	t.Run("accesses outside a short image are ignored", func(t *testing.T) {
		e := NewEeprom(make([]byte, 0x100))
		bus := newFakeBus()

		for _, b := range []uint8{CommandRead, 0x80, 0x00, 0x00} {
			bus.load(b)
			e.TransmitAndReceive(bus)
		}
		assert.Zero(t, bus.receive)

		e.Reset()
		assert.NotPanics(t, func() {
			for _, b := range []uint8{CommandWrite, 0x80, 0x00, 0x55} {
				bus.load(b)
				e.Transmit(bus)
			}
		})
	})
}

func TestAccelerometer(t *testing.T) {
	t.Run("sequential reads from the latched register", func(t *testing.T) {
		a := NewAccelerometer()
		a.SetRegister(0x02, 0x10)
		a.SetRegister(0x03, 0x20)
		bus := newFakeBus()

		bus.load(0x82) // read, register 2
		a.TransmitAndReceive(bus)
		assert.Equal(t, AccelerometerGettingData, a.State())
		assert.NotZero(t, bus.status&TransmitEmpty)

		bus.load(0x00)
		a.TransmitAndReceive(bus)
		assert.Equal(t, uint8(0x10), bus.receive)

		bus.load(0x00)
		a.TransmitAndReceive(bus)
		assert.Equal(t, uint8(0x20), bus.receive)
	})

	t.Run("writes and reset", func(t *testing.T) {
		a := NewAccelerometer()
		bus := newFakeBus()

		for _, b := range []uint8{0x14, 0xAB, 0xCD} {
			bus.load(b)
			a.Transmit(bus)
		}
		assert.Equal(t, uint8(0xAB), a.Register(0x14))
		assert.Equal(t, uint8(0xCD), a.Register(0x15))

		a.Reset()
		assert.Equal(t, AccelerometerGettingAddress, a.State())
	})
}

func TestLcdCommands(t *testing.T) {
	tests := []struct {
		name  string
		bytes []uint8
		check func(t *testing.T, l *Lcd)
	}{
		{
			name:  "column low and high",
			bytes: []uint8{0x13, 0x0A},
			check: func(t *testing.T, l *Lcd) { assert.Equal(t, uint8(0x3A), l.Column()) },
		},
		{
			name:  "page select",
			bytes: []uint8{0xB5},
			check: func(t *testing.T, l *Lcd) { assert.Equal(t, uint8(5), l.Page()) },
		},
		{
			name:  "contrast takes the next byte",
			bytes: []uint8{0x81, 0x24},
			check: func(t *testing.T, l *Lcd) {
				assert.Equal(t, uint8(0x24), l.Contrast())
				assert.Equal(t, LcdWaiting, l.State())
			},
		},
		{
			name:  "page offset divides by eight",
			bytes: []uint8{0x40, 0x10},
			check: func(t *testing.T, l *Lcd) { assert.Equal(t, uint8(2), l.PageOffset()) },
		},
		{
			name:  "power save on and off",
			bytes: []uint8{0xA9},
			check: func(t *testing.T, l *Lcd) { assert.True(t, l.PowerSave()) },
		},
		{
			name:  "reset restores defaults",
			bytes: []uint8{0xB3, 0x81, 0x30, 0xA9, 0xE2},
			check: func(t *testing.T, l *Lcd) {
				assert.Equal(t, uint8(0), l.Page())
				assert.Equal(t, uint8(lcdDefaultContrast), l.Contrast())
				assert.False(t, l.PowerSave())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLcd()
			bus := newFakeBus()
			for _, b := range tt.bytes {
				bus.load(b)
				l.Transmit(bus)
				assert.NotZero(t, bus.status&TransmitEnd)
			}
			tt.check(t, l)
		})
	}
}

func TestLcdData(t *testing.T) {
	l := NewLcd()
	data := NewLcdData(l)
	bus := newFakeBus()

	for _, b := range []uint8{0xB1, 0x10, 0x02} { // page 1, column 0x02
		bus.load(b)
		l.Transmit(bus)
	}

	bus.ports[Port1] = LcdDataPin
	for _, b := range []uint8{0x01, 0x02, 0x03, 0x04} {
		bus.load(b)
		l.Transmit(bus)
		assert.Zero(t, bus.status&TransmitEnd, "the controller leaves data bytes alone")
		data.Transmit(bus)
		assert.NotZero(t, bus.status&TransmitEmpty)
	}

	base := uint16(lcdPageSize + 2*lcdColumnSize)
	assert.Equal(t, uint8(0x01), l.Memory(base))
	assert.Equal(t, uint8(0x02), l.Memory(base+1))
	assert.Equal(t, uint8(0x03), l.Memory(base+2))
	assert.Equal(t, uint8(0x04), l.Memory(base+3))
	assert.Equal(t, uint8(0x04), l.Column(), "two columns written")
	assert.Equal(t, uint8(1), l.Page())

	t.Run("ignored while the chip is deselected", func(t *testing.T) {
		bus.ports[Port1] = LcdDataPin | LcdSelectPin
		bus.load(0xFF)
		data.Transmit(bus)
		assert.Zero(t, l.Memory(base+4))
		assert.Zero(t, bus.status&TransmitEnd)
	})
}

func TestLcdRender(t *testing.T) {
	l := NewLcd()
	bus := newFakeBus()

	bus.ports[Port1] = LcdDataPin
	data := NewLcdData(l)
	for _, b := range []uint8{0x01, 0x00, 0x00, 0x80, 0x01, 0x01} {
		bus.load(b)
		data.Transmit(bus)
	}

	var got *video.Frame
	var delta int
	l.OnDraw(func(f *video.Frame, contrastDelta int) {
		got = f
		delta = contrastDelta
	})

	l.Tick()
	require.NotNil(t, got)
	assert.Equal(t, uint8(2), got.GetPixel(0, 0), "first plane only")
	assert.Equal(t, uint8(1), got.GetPixel(1, 7), "second plane, bit 7")
	assert.Equal(t, uint8(3), got.GetPixel(2, 0), "both planes")
	assert.Equal(t, uint8(0), got.GetPixel(3, 0))
	assert.Equal(t, 0, delta)

	t.Run("power save renders blank", func(t *testing.T) {
		bus.ports[Port1] = 0
		for _, b := range []uint8{0x81, 0x19, 0xA9} {
			bus.load(b)
			l.Transmit(bus)
		}
		l.Tick()
		assert.Equal(t, uint8(0), got.GetPixel(2, 0))
		assert.Equal(t, 5, delta)
	})
}

func TestButtons(t *testing.T) {
	port := &fakePort{}
	b := NewButtons(port)

	b.Press(ButtonLeft)
	b.Press(ButtonCenter)
	assert.Equal(t, uint8(0x05), port.value)

	b.Release(ButtonLeft)
	assert.Equal(t, uint8(0x01), port.value)
	assert.Equal(t, "Right", ButtonRight.String())
}

type fakePort struct {
	value uint8
}

func (p *fakePort) SetBits(address uint16, mask uint8) {
	if address == PortB {
		p.value |= mask
	}
}

func (p *fakePort) ClearBits(address uint16, mask uint8) {
	if address == PortB {
		p.value &^= mask
	}
}

type fakeTimer struct {
	running bool
	a, b, c uint16
}

func (f fakeTimer) Running() bool     { return f.running }
func (f fakeTimer) RegisterA() uint16 { return f.a }
func (f fakeTimer) RegisterB() uint16 { return f.b }
func (f fakeTimer) RegisterC() uint16 { return f.c }

func TestBeeper(t *testing.T) {
	tests := []struct {
		name     string
		timer    fakeTimer
		expected Tone
	}{
		{"stopped timer is silent", fakeTimer{running: false, a: 100, b: 1, c: 2}, Tone{}},
		{"frequency from register A", fakeTimer{running: true, a: 100, b: 1, c: 2}, Tone{Frequency: 315}},
		{"full volume when B equals C", fakeTimer{running: true, a: 63, b: 7, c: 7}, Tone{Frequency: 500, FullVolume: true}},
		{"zero period is silent", fakeTimer{running: true, a: 0, b: 1, c: 2}, Tone{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBeeper(tt.timer)
			var got Tone
			b.OnTone(func(tone Tone) { got = tone })

			b.Tick()
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected, b.Tone())
		})
	}
}
