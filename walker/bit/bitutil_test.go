package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		high, low uint8
		expected  uint16
	}{
		{0xAB, 0xCD, 0xABCD},
		{0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFFFF},
		{0x12, 0x34, 0x1234},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Combine(tt.high, tt.low))
	}

	assert.Equal(t, uint32(0xDEADBEEF), Combine32(0xDEAD, 0xBEEF))
}

func TestIsSet(t *testing.T) {
	tests := []struct {
		byte     uint8
		index    uint8
		expected bool
	}{
		{0b10101010, 0, false},
		{0b10101010, 1, true},
		{0b10101010, 2, false},
		{0b10101010, 7, true},
		{0b10101010, 8, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsSet(tt.index, tt.byte), "IsSet(%d, %08b)", tt.index, tt.byte)
	}
}

func TestSetClear(t *testing.T) {
	assert.Equal(t, uint8(0b00000100), Set(2, 0))
	assert.Equal(t, uint8(0b11111011), Clear(2, 0xFF))
	assert.Equal(t, uint8(0b10000000), SetTo(7, 0, true))
	assert.Equal(t, uint8(0), SetTo(7, 0x80, false))
}

func TestNibbles(t *testing.T) {
	assert.Equal(t, uint8(0xA), HighNibble(0xAB))
	assert.Equal(t, uint8(0xB), LowNibble(0xAB))
	assert.Equal(t, uint8(0x12), High(0x1234))
	assert.Equal(t, uint8(0x34), Low(0x1234))
}

func TestBCD(t *testing.T) {
	tests := []struct {
		value int
		bcd   uint8
	}{
		{0, 0x00},
		{9, 0x09},
		{10, 0x10},
		{59, 0x59},
		{23, 0x23},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.bcd, ToBCD(tt.value))
		assert.Equal(t, tt.value, FromBCD(tt.bcd))
	}
}

func TestExtractBits(t *testing.T) {
	assert.Equal(t, uint8(0b101), ExtractBits(0b11010110, 6, 4))
	assert.Equal(t, uint8(0b110), ExtractBits(0b11010110, 2, 0))
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, int32(-2), SignExtend8(0xFE))
	assert.Equal(t, int32(127), SignExtend8(0x7F))
	assert.Equal(t, int32(-32768), SignExtend16(0x8000))
}
