package cpu

// shifter computes a one bit shift or rotate, updating C and V. N and Z
// are set by the caller from the result.
type shifter func(f *Flags, value uint32, size Size) uint32

func shll(f *Flags, value uint32, size Size) uint32 {
	f.C = value&size.Sign() != 0
	f.V = false
	return value << 1
}

func shal(f *Flags, value uint32, size Size) uint32 {
	result := value << 1
	f.C = value&size.Sign() != 0
	f.V = (value^result)&size.Sign() != 0
	return result
}

func shlr(f *Flags, value uint32, size Size) uint32 {
	f.C = value&1 != 0
	f.V = false
	return value >> 1
}

func shar(f *Flags, value uint32, size Size) uint32 {
	f.C = value&1 != 0
	f.V = false
	return value>>1 | value&size.Sign()
}

func rotl(f *Flags, value uint32, size Size) uint32 {
	msb := value&size.Sign() != 0
	f.C = msb
	f.V = false
	result := value << 1
	if msb {
		result |= 1
	}
	return result
}

func rotr(f *Flags, value uint32, size Size) uint32 {
	lsb := value&1 != 0
	f.C = lsb
	f.V = false
	result := value >> 1
	if lsb {
		result |= size.Sign()
	}
	return result
}

func rotxl(f *Flags, value uint32, size Size) uint32 {
	result := value << 1
	if f.C {
		result |= 1
	}
	f.C = value&size.Sign() != 0
	f.V = false
	return result
}

func rotxr(f *Flags, value uint32, size Size) uint32 {
	result := value >> 1
	if f.C {
		result |= size.Sign()
	}
	f.C = value&1 != 0
	f.V = false
	return result
}

// addShift registers the shift and rotate group, 10 to 13. Each row has a
// logical form (bH 0, 1, 3) and an arithmetic or plain rotate form
// (bH 8, 9, B), for byte, word and long operands.
func (t *tables) addShift() {
	for _, row := range []struct {
		a            uint32
		name, alt    string
		shift, shAlt shifter
	}{
		{0x10, "SHLL", "SHAL", shll, shal},
		{0x11, "SHLR", "SHAR", shlr, shar},
		{0x12, "ROTXL", "ROTL", rotxl, rotl},
		{0x13, "ROTXR", "ROTR", rotxr, rotr},
	} {
		for _, s := range []struct {
			sized
			bH uint32
		}{
			{dotB, 0x0}, {dotW, 0x1}, {dotL, 0x3},
		} {
			t.prefixed.Add(Key(row.a), Key(s.bH), shiftOp(row.name+s.suffix+" Rd", s.size, row.shift))
			t.prefixed.Add(Key(row.a), Key(s.bH|0x8), shiftOp(row.alt+s.suffix+" Rd", s.size, row.shAlt))
		}
	}
}

func shiftOp(name string, size Size, fn shifter) *Instruction {
	return &Instruction{
		Name: name, Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			result := fn(&c.flags, c.regs.Get(size, o.BLo), size) & size.Mask()
			c.flags.N = result&size.Sign() != 0
			c.flags.Z = result == 0
			c.regs.Set(size, o.BLo, result)
		},
	}
}
