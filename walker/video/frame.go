package video

import (
	"image"
	"image/color"
)

// LCD geometry in pixels.
const (
	Width  = 96
	Height = 64
)

// Color is a 0xAARRGGBB value.
type Color uint32

const (
	LightestColor Color = 0xFFCCCCCC
	LightColor    Color = 0xFF999999
	DarkColor     Color = 0xFF666666
	DarkestColor  Color = 0xFF333333
)

// Palette maps the 2 bit pixel indices the LCD produces to colors.
var Palette = [4]Color{LightestColor, LightColor, DarkColor, DarkestColor}

// contrastStep is how much one contrast unit shifts every channel.
const contrastStep = 3

// Frame holds one LCD frame as palette indices, row major.
type Frame struct {
	width  uint
	height uint
	buffer []uint8
}

// NewFrame creates a blank frame with the LCD dimensions.
func NewFrame() *Frame {
	return &Frame{
		width:  Width,
		height: Height,
		buffer: make([]uint8, Width*Height),
	}
}

func (f Frame) Width() uint  { return f.width }
func (f Frame) Height() uint { return f.height }

func (f Frame) GetPixel(x, y uint) uint8 {
	return f.buffer[y*f.width+x]
}

func (f *Frame) SetPixel(x, y uint, index uint8) {
	f.buffer[y*f.width+x] = index & 0x3
}

// Clear sets every pixel to index 0.
func (f *Frame) Clear() {
	clear(f.buffer)
}

// Clone returns a copy that is safe to hand to another goroutine.
func (f *Frame) Clone() *Frame {
	c := &Frame{width: f.width, height: f.height, buffer: make([]uint8, len(f.buffer))}
	copy(c.buffer, f.buffer)
	return c
}

// Shade returns the color for a palette index, darkened (positive delta) or
// lightened (negative delta) by the LCD contrast setting.
func Shade(index uint8, contrastDelta int) color.RGBA {
	c := Palette[index&0x3]
	adjust := func(v uint8) uint8 {
		n := int(v) - contrastDelta*contrastStep
		return uint8(max(0, min(0xFF, n)))
	}
	return color.RGBA{
		R: adjust(uint8(c >> 16)),
		G: adjust(uint8(c >> 8)),
		B: adjust(uint8(c)),
		A: 0xFF,
	}
}

// Image renders the frame into an RGBA image, each LCD pixel becoming a
// scale x scale block.
func (f *Frame) Image(contrastDelta, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, int(f.width)*scale, int(f.height)*scale))
	for y := uint(0); y < f.height; y++ {
		for x := uint(0); x < f.width; x++ {
			c := Shade(f.GetPixel(x, y), contrastDelta)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(int(x)*scale+dx, int(y)*scale+dy, c)
				}
			}
		}
	}
	return img
}
