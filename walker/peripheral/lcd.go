package peripheral

import (
	"fmt"

	"github.com/valerio/go-pokewalker/walker/video"
)

// LCD controller pins on port 1. The chip select is active low, the
// data/command line is high for display data.
const (
	LcdSelectPin = Pin0
	LcdDataPin   = Pin1
)

const (
	lcdTotalColumns = 128
	lcdColumnSize   = 2
	lcdPageSize     = lcdTotalColumns * lcdColumnSize
	// enough pages for the page select plus the largest start line offset
	lcdMemorySize = 40 * lcdPageSize

	lcdDefaultContrast = 20
)

// LCD controller commands. Column and page commands carry their
// argument in the low bits.
const (
	lcdColumnHigh     uint8 = 0x10
	lcdPageOffset     uint8 = 0x40
	lcdContrast       uint8 = 0x81
	lcdPowerSaveOn    uint8 = 0xA9
	lcdPageSelect     uint8 = 0xB0
	lcdPowerSaveOff   uint8 = 0xE1
	lcdResetCommand   uint8 = 0xE2
	lcdColumnLowMask  uint8 = 0x0F
	lcdColumnHighMask uint8 = 0x07
)

type LcdState int

const (
	LcdWaiting LcdState = iota
	LcdContrast
	LcdPageOffset
)

func (s LcdState) String() string {
	switch s {
	case LcdWaiting:
		return "Waiting"
	case LcdContrast:
		return "Contrast"
	case LcdPageOffset:
		return "PageOffset"
	}
	return fmt.Sprintf("LcdState(%d)", int(s))
}

// Renderer receives a rendered frame and the contrast offset from the
// controller default. The frame is reused between calls.
type Renderer func(frame *video.Frame, contrastDelta int)

// Lcd is the display controller. It decodes command bytes and owns the
// display memory that LcdData fills.
type Lcd struct {
	memory [lcdMemorySize]uint8
	state  LcdState

	column     uint8
	offset     uint8
	page       uint8
	pageOffset uint8
	contrast   uint8
	powerSave  bool

	frame  *video.Frame
	render Renderer
}

func NewLcd() *Lcd {
	l := &Lcd{frame: video.NewFrame()}
	l.reset()
	return l
}

func (l *Lcd) IsData() bool        { return false }
func (l *Lcd) IsProgressive() bool { return false }
func (l *Lcd) device()             {}

// Reset only drops a half received command; the display state survives a
// chip deselect.
func (l *Lcd) Reset() {
	l.state = LcdWaiting
}

// OnDraw sets the renderer called on every Tick.
func (l *Lcd) OnDraw(r Renderer) {
	l.render = r
}

func (l *Lcd) State() LcdState       { return l.state }
func (l *Lcd) Contrast() uint8       { return l.contrast }
func (l *Lcd) Page() uint8           { return l.page }
func (l *Lcd) Column() uint8         { return l.column }
func (l *Lcd) PageOffset() uint8     { return l.pageOffset }
func (l *Lcd) PowerSave() bool       { return l.powerSave }
func (l *Lcd) Frame() *video.Frame   { return l.frame }
func (l *Lcd) Memory(i uint16) uint8 { return l.memory[int(i)%lcdMemorySize] }

// Transmit decodes a command byte. Bytes sent while the data/command line
// is high belong to LcdData.
func (l *Lcd) Transmit(bus Bus) {
	if bus.Port(Port1)&LcdDataPin != 0 {
		return
	}

	l.command(bus.Transmitted())
	bus.Signal(TransmitEmpty | TransmitEnd)
}

func (l *Lcd) TransmitAndReceive(bus Bus) {
	if bus.Port(Port1)&LcdDataPin != 0 {
		return
	}

	l.Transmit(bus)
	bus.Signal(ReceiveFull)
}

func (l *Lcd) command(value uint8) {
	switch l.state {
	case LcdContrast:
		l.contrast = value
		l.state = LcdWaiting
		return
	case LcdPageOffset:
		l.pageOffset = value / 8
		l.state = LcdWaiting
		return
	}

	switch {
	case value <= lcdColumnLowMask:
		l.column = l.column&0xF0 | value&lcdColumnLowMask
		l.offset = 0
	case value >= lcdColumnHigh && value <= lcdColumnHigh|lcdColumnHighMask:
		l.column = l.column&0x0F | (value&lcdColumnHighMask)<<4
		l.offset = 0
	case value >= lcdPageOffset && value <= lcdPageOffset|0x03:
		l.state = LcdPageOffset
	case value >= lcdPageSelect && value <= lcdPageSelect|0x0F:
		l.page = value & 0x0F
	case value == lcdContrast:
		l.state = LcdContrast
	case value == lcdPowerSaveOn:
		l.powerSave = true
	case value == lcdPowerSaveOff:
		l.powerSave = false
	case value == lcdResetCommand:
		l.reset()
	}
}

func (l *Lcd) reset() {
	l.column = 0
	l.offset = 0
	l.page = 0
	l.pageOffset = 0
	l.contrast = lcdDefaultContrast
	l.powerSave = false
	l.state = LcdWaiting
}

// writeData stores a display byte. Every column holds two bytes, one per
// bit plane, and the column advances after the second.
func (l *Lcd) writeData(value uint8) {
	address := int(l.page)*lcdPageSize + int(l.column)*lcdColumnSize + int(l.offset)
	l.memory[address%lcdMemorySize] = value

	if l.offset == 1 {
		l.column++
	}
	l.offset = (l.offset + 1) % lcdColumnSize
}

// Tick renders display memory into the frame and hands it to the renderer.
func (l *Lcd) Tick() {
	if l.powerSave {
		l.frame.Clear()
	} else {
		for y := uint(0); y < video.Height; y++ {
			bitOffset := y % 8
			pageBase := (int(y/8) + int(l.pageOffset)) * lcdPageSize

			for x := uint(0); x < video.Width; x++ {
				base := pageBase + int(x)*lcdColumnSize
				first := l.memory[base%lcdMemorySize] >> bitOffset & 1
				second := l.memory[(base+1)%lcdMemorySize] >> bitOffset & 1
				l.frame.SetPixel(x, y, first<<1|second)
			}
		}
	}

	if l.render != nil {
		l.render(l.frame, int(l.contrast)-lcdDefaultContrast)
	}
}

// LcdData is the data latch side of the display: it is selected by the
// data/command line and forwards display bytes to the controller while the
// chip is selected.
type LcdData struct {
	lcd *Lcd
}

func NewLcdData(lcd *Lcd) *LcdData {
	return &LcdData{lcd: lcd}
}

func (d *LcdData) IsData() bool        { return true }
func (d *LcdData) IsProgressive() bool { return false }
func (d *LcdData) Reset()              {}
func (d *LcdData) device()             {}

func (d *LcdData) Transmit(bus Bus) {
	if bus.Port(Port1)&LcdSelectPin != 0 {
		return
	}

	d.lcd.writeData(bus.Transmitted())
	bus.Signal(TransmitEmpty | TransmitEnd)
}

func (d *LcdData) TransmitAndReceive(bus Bus) {
	if bus.Port(Port1)&LcdSelectPin != 0 {
		return
	}

	d.Transmit(bus)
	bus.Signal(ReceiveFull)
}
