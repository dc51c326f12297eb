package cpu

import "strings"

// Flag is a bit of the condition code register (CCR).
type Flag uint8

const (
	CarryFlag     Flag = 1 << 0
	OverflowFlag  Flag = 1 << 1
	ZeroFlag      Flag = 1 << 2
	NegativeFlag  Flag = 1 << 3
	UserFlag      Flag = 1 << 4
	HalfCarryFlag Flag = 1 << 5
	UserIntFlag   Flag = 1 << 6
	InterruptFlag Flag = 1 << 7
)

// Flags holds the CCR bits.
type Flags struct {
	I, UI, H, U, N, Z, V, C bool
}

// CCR packs the flags into the register layout, I in bit 7 down to C in bit 0.
func (f *Flags) CCR() uint8 {
	var ccr uint8
	for _, b := range []struct {
		set  bool
		flag Flag
	}{
		{f.I, InterruptFlag}, {f.UI, UserIntFlag}, {f.H, HalfCarryFlag}, {f.U, UserFlag},
		{f.N, NegativeFlag}, {f.Z, ZeroFlag}, {f.V, OverflowFlag}, {f.C, CarryFlag},
	} {
		if b.set {
			ccr |= uint8(b.flag)
		}
	}
	return ccr
}

// SetCCR unpacks value into the individual flags.
func (f *Flags) SetCCR(value uint8) {
	f.I = value&uint8(InterruptFlag) != 0
	f.UI = value&uint8(UserIntFlag) != 0
	f.H = value&uint8(HalfCarryFlag) != 0
	f.U = value&uint8(UserFlag) != 0
	f.N = value&uint8(NegativeFlag) != 0
	f.Z = value&uint8(ZeroFlag) != 0
	f.V = value&uint8(OverflowFlag) != 0
	f.C = value&uint8(CarryFlag) != 0
}

// String returns the flags as "IUHUNZVC" with unset flags shown as '-'.
func (f *Flags) String() string {
	var sb strings.Builder
	for i, set := range []bool{f.I, f.UI, f.H, f.U, f.N, f.Z, f.V, f.C} {
		if set {
			sb.WriteByte("IUHUNZVC"[i])
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// halfCarryBit is the bit receiving the carry out of bit 3, 11 or 27.
func halfCarryBit(size Size) uint32 {
	switch size {
	case Byte:
		return 4
	case Word:
		return 12
	default:
		return 28
	}
}

// setMov updates N and Z from value and clears V.
func (f *Flags) setMov(value uint32, size Size) {
	value &= size.Mask()
	f.N = value&size.Sign() != 0
	f.Z = value == 0
	f.V = false
}

// setAdd computes rd + rs + carry, updates H, N, Z, V, C and returns the
// truncated result.
func (f *Flags) setAdd(rd, rs uint32, carry bool, size Size) uint32 {
	mask := size.Mask()
	rd &= mask
	rs &= mask

	full := uint64(rd) + uint64(rs)
	if carry {
		full++
	}
	result := uint32(full) & mask

	f.H = (rd^rs^result)>>halfCarryBit(size)&1 != 0
	f.N = result&size.Sign() != 0
	f.Z = result == 0
	f.V = ^(rd^rs)&(rd^result)&size.Sign() != 0
	f.C = full > uint64(mask)
	return result
}

// setSub computes rd - rs - borrow, updates H, N, Z, V, C and returns the
// truncated result.
func (f *Flags) setSub(rd, rs uint32, borrow bool, size Size) uint32 {
	mask := size.Mask()
	rd &= mask
	rs &= mask

	sub := uint64(rs)
	if borrow {
		sub++
	}
	result := uint32(uint64(rd)-sub) & mask

	f.H = (rd^rs^result)>>halfCarryBit(size)&1 != 0
	f.N = result&size.Sign() != 0
	f.Z = result == 0
	f.V = (rd^rs)&(rd^result)&size.Sign() != 0
	f.C = sub > uint64(rd)
	return result
}

// setInc computes value + delta, updates N, Z, V and returns the result.
// Overflow is set when a positive value wraps to negative.
func (f *Flags) setInc(value, delta uint32, size Size) uint32 {
	mask := size.Mask()
	value &= mask
	result := (value + delta) & mask

	f.N = result&size.Sign() != 0
	f.Z = result == 0
	f.V = value&size.Sign() == 0 && result&size.Sign() != 0
	return result
}

// setDec computes value - delta, updates N, Z, V and returns the result.
// Overflow is set when a negative value wraps to positive.
func (f *Flags) setDec(value, delta uint32, size Size) uint32 {
	mask := size.Mask()
	value &= mask
	result := (value - delta) & mask

	f.N = result&size.Sign() != 0
	f.Z = result == 0
	f.V = value&size.Sign() != 0 && result&size.Sign() == 0
	return result
}
