package cpu

// Opcode is the decode window: the 8 bytes at PC split into the fields the
// instruction encodings refer to. Bytes are named a to h, pairs ab, cd, ef
// and gh, and each byte has a high (xHi) and low (xLo) nibble.
type Opcode struct {
	A, B, C, D, E, F, G, H uint8
	AB, CD, EF, GH         uint16
	CDEF, EFGH             uint32

	AHi, ALo uint8
	BHi, BLo uint8
	CHi, CLo uint8
	DHi, DLo uint8
	EHi, ELo uint8
	FHi, FLo uint8
	GHi, GLo uint8
	HHi, HLo uint8
}

// Update refreshes every field from the 8 bytes at pc. It peeks, so
// fetching never triggers memory hooks.
func (o *Opcode) Update(bus Bus, pc uint32) {
	base := uint16(pc)
	o.A = bus.PeekByte(base)
	o.B = bus.PeekByte(base + 1)
	o.C = bus.PeekByte(base + 2)
	o.D = bus.PeekByte(base + 3)
	o.E = bus.PeekByte(base + 4)
	o.F = bus.PeekByte(base + 5)
	o.G = bus.PeekByte(base + 6)
	o.H = bus.PeekByte(base + 7)

	o.AB = uint16(o.A)<<8 | uint16(o.B)
	o.CD = uint16(o.C)<<8 | uint16(o.D)
	o.EF = uint16(o.E)<<8 | uint16(o.F)
	o.GH = uint16(o.G)<<8 | uint16(o.H)
	o.CDEF = uint32(o.CD)<<16 | uint32(o.EF)
	o.EFGH = uint32(o.EF)<<16 | uint32(o.GH)

	o.AHi, o.ALo = o.A>>4, o.A&0xF
	o.BHi, o.BLo = o.B>>4, o.B&0xF
	o.CHi, o.CLo = o.C>>4, o.C&0xF
	o.DHi, o.DLo = o.D>>4, o.D&0xF
	o.EHi, o.ELo = o.E>>4, o.E&0xF
	o.FHi, o.FLo = o.F>>4, o.F&0xF
	o.GHi, o.GLo = o.G>>4, o.G&0xF
	o.HHi, o.HLo = o.H>>4, o.H&0xF
}

// Bytes returns the raw window.
func (o *Opcode) Bytes() [8]byte {
	return [8]byte{o.A, o.B, o.C, o.D, o.E, o.F, o.G, o.H}
}
