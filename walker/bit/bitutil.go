package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// Combine32 combines two 16 bit values into a single 32 bit value.
func Combine32(high, low uint16) uint32 {
	return (uint32(high) << 16) | uint32(low)
}

// IsSet will check if the bit at the specified index is Set to 1 or not.
func IsSet(index, byte uint8) bool {
	return ((byte >> index) & 1) == 1
}

// Clear will return the passed byte with the bit at the specified index Set to 0.
func Clear(index, byte uint8) uint8 {
	return byte & ^(1 << index)
}

// Set will return the passed byte with the bit at the specified index Set to 1.
func Set(index, byte uint8) uint8 {
	return byte | (1 << index)
}

// SetTo sets or clears the bit at index depending on value.
func SetTo(index, byte uint8, value bool) uint8 {
	if value {
		return Set(index, byte)
	}
	return Clear(index, byte)
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// HighNibble returns bits 7-4 of value.
func HighNibble(value uint8) uint8 {
	return value >> 4
}

// LowNibble returns bits 3-0 of value.
func LowNibble(value uint8) uint8 {
	return value & 0x0F
}

// ToBCD encodes a value in the 0-99 range as packed binary coded decimal.
func ToBCD(value int) uint8 {
	return uint8(((value/10)%10)<<4 | value%10)
}

// FromBCD decodes a packed binary coded decimal byte.
func FromBCD(value uint8) int {
	return int(value>>4)*10 + int(value&0x0F)
}

// ExtractBits extracts bits from highBit to lowBit (inclusive)
// Example: ExtractBits(0b11010110, 6, 4) -> 0b101 (extracts bits 6, 5, 4)
func ExtractBits(value uint8, highBit, lowBit uint8) uint8 {
	shift := lowBit
	width := highBit - lowBit + 1
	mask := uint8((1 << width) - 1)
	return (value >> shift) & mask
}

// SignExtend8 interprets value as a signed byte.
func SignExtend8(value uint8) int32 {
	return int32(int8(value))
}

// SignExtend16 interprets value as a signed 16 bit number.
func SignExtend16(value uint16) int32 {
	return int32(int16(value))
}
