package cpu

// bitOp applies a bit manipulation to value. It returns the new value and
// whether it has to be written back.
type bitOp func(c *CPU, value uint8, n uint8) (uint8, bool)

func bset(_ *CPU, value, n uint8) (uint8, bool) { return value | 1<<n, true }
func bnot(_ *CPU, value, n uint8) (uint8, bool) { return value ^ 1<<n, true }
func bclr(_ *CPU, value, n uint8) (uint8, bool) { return value &^ (1 << n), true }

func btst(c *CPU, value, n uint8) (uint8, bool) {
	c.flags.Z = value&(1<<n) == 0
	return value, false
}

func bld(c *CPU, value, n uint8) (uint8, bool) {
	c.flags.C = value&(1<<n) != 0
	return value, false
}

func bst(c *CPU, value, n uint8) (uint8, bool) {
	if c.flags.C {
		return value | 1<<n, true
	}
	return value &^ (1 << n), true
}

// bit number sources
var (
	bitFromRegister  = func(c *CPU, sel uint8) uint8 { return c.regs.Byte(sel) & 7 }
	bitFromImmediate = func(_ *CPU, imm uint8) uint8 { return imm & 7 }
)

func (t *tables) addBit() {
	t.addBitRegister()
	t.addBitMemory()
}

// addBitRegister registers the forms operating on a byte register: Rn or
// the immediate bit number in bH, the target in bL.
func (t *tables) addBitRegister() {
	for _, op := range []struct {
		name string
		fn   bitOp
		aL   uint32
	}{
		{"BSET", bset, 0x0}, {"BNOT", bnot, 0x1}, {"BCLR", bclr, 0x2}, {"BTST", btst, 0x3},
	} {
		t.root.Add(Key(0x6), Key(op.aL), bitRegister(op.name+" Rn, Rd", op.fn, bitFromRegister))
		t.root.Add(Key(0x7), Key(op.aL), bitRegister(op.name+" #xx:3, Rd", op.fn, bitFromImmediate))
	}

	t.prefixed.Add(Key(0x67), Range(0x0, 0x7), bitRegister("BST #xx:3, Rd", bst, bitFromImmediate))
	t.prefixed.Add(Key(0x67), Range(0x8, 0xF), &Instruction{Name: "BIST #xx:3, Rd", Bytes: 2, Cycles: 2, Unimplemented: true})
	t.prefixed.Add(Key(0x77), Range(0x0, 0x7), bitRegister("BLD #xx:3, Rd", bld, bitFromImmediate))
	t.prefixed.Add(Key(0x77), Range(0x8, 0xF), &Instruction{Name: "BILD #xx:3, Rd", Bytes: 2, Cycles: 2, Unimplemented: true})
}

func bitRegister(name string, fn bitOp, bitNumber func(c *CPU, field uint8) uint8) *Instruction {
	return &Instruction{
		Name: name, Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			value, write := fn(c, c.regs.Byte(o.BLo), bitNumber(c, o.BHi))
			if write {
				c.regs.SetByte(o.BLo, value)
			}
		},
	}
}

// addBitMemory registers the forms operating on memory. 7C/7D address
// through @ERd (ERd in bH), 7E/7F through @aa:8 (address in b). The
// operation is in c and the bit number or Rn in dH.
func (t *tables) addBitMemory() {
	viaRegister := func(c *CPU, o *Opcode) uint16 { return c.address(o.BHi) }
	viaAbsolute := func(_ *CPU, o *Opcode) uint16 { return 0xFF00 | uint16(o.B) }

	for _, mode := range []struct {
		test, set uint32
		suffix    string
		address   func(c *CPU, o *Opcode) uint16
	}{
		{0x7C, 0x7D, "@ERd", viaRegister},
		{0x7E, 0x7F, "@aa:8", viaAbsolute},
	} {
		test := mode.test << 8
		set := mode.set << 8

		// register forms accept any Rn, so both values of dH bit 3
		t.bitmem.Add(Key(test|0x63), Key(0, 1), bitMemory("BTST Rn, "+mode.suffix, btst, bitFromRegister, mode.address))
		t.bitmem.Add(Key(test|0x73), Key(0), bitMemory("BTST #xx:3, "+mode.suffix, btst, bitFromImmediate, mode.address))
		t.bitmem.Add(Key(test|0x77), Key(0), bitMemory("BLD #xx:3, "+mode.suffix, bld, bitFromImmediate, mode.address))
		t.bitmem.Add(Key(test|0x77), Key(1), &Instruction{Name: "BILD #xx:3, " + mode.suffix, Bytes: 4, Cycles: 6, Unimplemented: true})

		for _, op := range []struct {
			name string
			fn   bitOp
			c    uint32
		}{
			{"BSET", bset, 0x0}, {"BNOT", bnot, 0x1}, {"BCLR", bclr, 0x2},
		} {
			t.bitmem.Add(Key(set|0x60|op.c), Key(0, 1), bitMemory(op.name+" Rn, "+mode.suffix, op.fn, bitFromRegister, mode.address))
			t.bitmem.Add(Key(set|0x70|op.c), Key(0), bitMemory(op.name+" #xx:3, "+mode.suffix, op.fn, bitFromImmediate, mode.address))
		}
		t.bitmem.Add(Key(set|0x67), Key(0), bitMemory("BST #xx:3, "+mode.suffix, bst, bitFromImmediate, mode.address))
		t.bitmem.Add(Key(set|0x67), Key(1), &Instruction{Name: "BIST #xx:3, " + mode.suffix, Bytes: 4, Cycles: 8, Unimplemented: true})
	}
}

func bitMemory(name string, fn bitOp, bitNumber func(c *CPU, field uint8) uint8, address func(c *CPU, o *Opcode) uint16) *Instruction {
	return &Instruction{
		Name: name, Bytes: 4, Cycles: 8,
		Execute: func(c *CPU, o *Opcode) {
			target := address(c, o)
			value, write := fn(c, c.bus.ReadByte(target), bitNumber(c, o.DHi))
			if write {
				c.bus.WriteByte(target, value)
			}
		},
	}
}
