package cpu

func (c *CPU) add(size Size, rd uint8, value uint32) {
	c.regs.Set(size, rd, c.flags.setAdd(c.regs.Get(size, rd), value, false, size))
}

// addx adds with carry. Z can only be cleared, so a multi-word result is
// zero only when every part was.
func (c *CPU) addx(size Size, rd uint8, value uint32) {
	z := c.flags.Z
	result := c.flags.setAdd(c.regs.Get(size, rd), value, c.flags.C, size)
	c.flags.Z = z && result == 0
	c.regs.Set(size, rd, result)
}

func (c *CPU) sub(size Size, rd uint8, value uint32) {
	c.regs.Set(size, rd, c.flags.setSub(c.regs.Get(size, rd), value, false, size))
}

func (c *CPU) subx(size Size, rd uint8, value uint32) {
	z := c.flags.Z
	result := c.flags.setSub(c.regs.Get(size, rd), value, c.flags.C, size)
	c.flags.Z = z && result == 0
	c.regs.Set(size, rd, result)
}

func (c *CPU) cmp(size Size, rd uint8, value uint32) {
	c.flags.setSub(c.regs.Get(size, rd), value, false, size)
}

func (t *tables) addArithmetic() {
	t.addAddSubCmp()
	t.addIncDec()
	t.addMulDiv()
	t.addExtend()
}

func (t *tables) addAddSubCmp() {
	type op struct {
		name string
		fn   func(c *CPU, size Size, rd uint8, value uint32)
	}
	add := op{"ADD", (*CPU).add}
	sub := op{"SUB", (*CPU).sub}
	cmp := op{"CMP", (*CPU).cmp}
	addx := op{"ADDX", (*CPU).addx}
	subx := op{"SUBX", (*CPU).subx}

	// register to register, operands in b
	for _, r := range []struct {
		op
		sized
		aL uint32
	}{
		{add, dotB, 0x8}, {add, dotW, 0x9}, {addx, dotB, 0xE},
	} {
		t.root.Add(Key(0x0), Key(r.aL), registerOp(r.name+r.suffix+" Rs, Rd", r.size, r.fn))
	}
	for _, r := range []struct {
		op
		sized
		aL uint32
	}{
		{sub, dotB, 0x8}, {sub, dotW, 0x9}, {cmp, dotB, 0xC}, {cmp, dotW, 0xD}, {subx, dotB, 0xE},
	} {
		t.root.Add(Key(0x1), Key(r.aL), registerOp(r.name+r.suffix+" Rs, Rd", r.size, r.fn))
	}

	// long register forms: bH is 1sss
	t.prefixed.Add(Key(0x0A), Range(0x8, 0xF), registerOp("ADD.L ERs, ERd", Long, add.fn))
	t.prefixed.Add(Key(0x1A), Range(0x8, 0xF), registerOp("SUB.L ERs, ERd", Long, sub.fn))
	t.prefixed.Add(Key(0x1F), Range(0x8, 0xF), registerOp("CMP.L ERs, ERd", Long, cmp.fn))

	// byte immediates: aH is the operation, aL the register
	for _, imm := range []struct {
		op
		aH uint32
	}{
		{add, 0x8}, {addx, 0x9}, {cmp, 0xA}, {subx, 0xB},
	} {
		fn := imm.fn
		t.root.Add(Key(imm.aH), Range(0x0, 0xF), &Instruction{
			Name: imm.name + ".B #xx:8, Rd", Bytes: 2, Cycles: 2,
			Execute: func(c *CPU, o *Opcode) {
				fn(c, Byte, o.ALo, uint32(o.B))
			},
		})
	}

	// word and long immediates: 79/7A with the operation in bH
	for _, imm := range []struct {
		op
		bH uint32
	}{
		{add, 0x1}, {cmp, 0x2}, {sub, 0x3},
	} {
		t.prefixed.Add(Key(0x79), Key(imm.bH), wordImmediate(imm.name, imm.fn))
		t.prefixed.Add(Key(0x7A), Key(imm.bH), longImmediate(imm.name, imm.fn))
	}

	t.prefixed.Add(Key(0x17), Key(0x8), negate(dotB))
	t.prefixed.Add(Key(0x17), Key(0x9), negate(dotW))
	t.prefixed.Add(Key(0x17), Key(0xB), negate(dotL))
}

// registerOp builds a two register instruction with Rs in bH and Rd in bL.
func registerOp(name string, size Size, fn func(c *CPU, size Size, rd uint8, value uint32)) *Instruction {
	return &Instruction{
		Name: name, Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			fn(c, size, o.BLo, c.regs.Get(size, o.BHi))
		},
	}
}

func wordImmediate(name string, fn func(c *CPU, size Size, rd uint8, value uint32)) *Instruction {
	return &Instruction{
		Name: name + ".W #xx:16, Rd", Bytes: 4, Cycles: 4,
		Execute: func(c *CPU, o *Opcode) {
			fn(c, Word, o.BLo, uint32(o.CD))
		},
	}
}

func longImmediate(name string, fn func(c *CPU, size Size, rd uint8, value uint32)) *Instruction {
	return &Instruction{
		Name: name + ".L #xx:32, ERd", Bytes: 6, Cycles: 6,
		Execute: func(c *CPU, o *Opcode) {
			fn(c, Long, o.BLo, o.CDEF)
		},
	}
}

func negate(s sized) *Instruction {
	size := s.size
	return &Instruction{
		Name: "NEG" + s.suffix + " Rd", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.regs.Set(size, o.BLo, c.flags.setSub(0, c.regs.Get(size, o.BLo), false, size))
		},
	}
}

func (t *tables) addIncDec() {
	type step struct {
		sized
		bH    uint32
		delta uint32
	}

	t.prefixed.Add(Key(0x0A), Key(0x0), incDec("INC.B Rd", Byte, 1, (*Flags).setInc))
	t.prefixed.Add(Key(0x1A), Key(0x0), incDec("DEC.B Rd", Byte, 1, (*Flags).setDec))
	for _, s := range []step{
		{dotW, 0x5, 1}, {dotW, 0xD, 2}, {dotL, 0x7, 1}, {dotL, 0xF, 2},
	} {
		t.prefixed.Add(Key(0x0B), Key(s.bH), incDec("INC"+s.suffix+" #"+deltaName(s.delta)+", Rd", s.size, s.delta, (*Flags).setInc))
		t.prefixed.Add(Key(0x1B), Key(s.bH), incDec("DEC"+s.suffix+" #"+deltaName(s.delta)+", Rd", s.size, s.delta, (*Flags).setDec))
	}

	// ADDS and SUBS adjust a pointer register and leave the flags alone
	for _, s := range []struct {
		bH    uint32
		delta uint32
	}{
		{0x0, 1}, {0x8, 2}, {0x9, 4},
	} {
		delta := s.delta
		t.prefixed.Add(Key(0x0B), Key(s.bH), &Instruction{
			Name: "ADDS #" + deltaName(delta) + ", ERd", Bytes: 2, Cycles: 2,
			Execute: func(c *CPU, o *Opcode) {
				c.regs.SetLong(o.BLo, c.regs.Long(o.BLo)+delta)
			},
		})
		t.prefixed.Add(Key(0x1B), Key(s.bH), &Instruction{
			Name: "SUBS #" + deltaName(delta) + ", ERd", Bytes: 2, Cycles: 2,
			Execute: func(c *CPU, o *Opcode) {
				c.regs.SetLong(o.BLo, c.regs.Long(o.BLo)-delta)
			},
		})
	}
}

func deltaName(delta uint32) string {
	return string(rune('0' + delta))
}

func incDec(name string, size Size, delta uint32, fn func(f *Flags, value, delta uint32, size Size) uint32) *Instruction {
	return &Instruction{
		Name: name, Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.regs.Set(size, o.BLo, fn(&c.flags, c.regs.Get(size, o.BLo), delta, size))
		},
	}
}

func (t *tables) addMulDiv() {
	t.root.Add(Key(0x5), Key(0x0), &Instruction{
		Name: "MULXU.B Rs, Rd", Bytes: 2, Cycles: 14,
		Execute: func(c *CPU, o *Opcode) {
			product := uint16(c.regs.Word(o.BLo)&0xFF) * uint16(c.regs.Byte(o.BHi))
			c.regs.SetWord(o.BLo, product)
		},
	})
	t.root.Add(Key(0x5), Key(0x2), &Instruction{
		Name: "MULXU.W Rs, ERd", Bytes: 2, Cycles: 22,
		Execute: func(c *CPU, o *Opcode) {
			product := uint32(c.regs.Word(o.BLo&7)) * uint32(c.regs.Word(o.BHi))
			c.regs.SetLong(o.BLo, product)
		},
	})

	t.root.Add(Key(0x5), Key(0x1), &Instruction{
		Name: "DIVXU.B Rs, Rd", Bytes: 2, Cycles: 14,
		Execute: func(c *CPU, o *Opcode) {
			divisor := c.regs.Byte(o.BHi)
			c.flags.N = divisor&0x80 != 0
			c.flags.Z = divisor == 0
			if divisor == 0 {
				return
			}
			dividend := c.regs.Word(o.BLo)
			quotient := dividend / uint16(divisor)
			remainder := dividend % uint16(divisor)
			c.regs.SetWord(o.BLo, remainder<<8|quotient&0xFF)
		},
	})
	t.root.Add(Key(0x5), Key(0x3), &Instruction{
		Name: "DIVXU.W Rs, ERd", Bytes: 2, Cycles: 22,
		Execute: func(c *CPU, o *Opcode) {
			divisor := c.regs.Word(o.BHi)
			c.flags.N = divisor&0x8000 != 0
			c.flags.Z = divisor == 0
			if divisor == 0 {
				return
			}
			dividend := c.regs.Long(o.BLo)
			quotient := dividend / uint32(divisor)
			remainder := dividend % uint32(divisor)
			c.regs.SetLong(o.BLo, remainder<<16|quotient&0xFFFF)
		},
	})

	// signed forms, 01 C0 / 01 D0 prefix, operands in d
	t.extended.Add(Key(0x1C05), Key(0x0), &Instruction{
		Name: "MULXS.B Rs, Rd", Bytes: 4, Cycles: 16,
		Execute: func(c *CPU, o *Opcode) {
			product := int16(int8(c.regs.Word(o.DLo))) * int16(int8(c.regs.Byte(o.DHi)))
			c.flags.N = product < 0
			c.flags.Z = product == 0
			c.regs.SetWord(o.DLo, uint16(product))
		},
	})
	t.extended.Add(Key(0x1C05), Key(0x2), &Instruction{
		Name: "MULXS.W Rs, ERd", Bytes: 4, Cycles: 24,
		Execute: func(c *CPU, o *Opcode) {
			product := int32(int16(c.regs.Word(o.DLo&7))) * int32(int16(c.regs.Word(o.DHi)))
			c.flags.N = product < 0
			c.flags.Z = product == 0
			c.regs.SetLong(o.DLo, uint32(product))
		},
	})
	t.extended.Add(Key(0x1D05), Key(0x1), &Instruction{
		Name: "DIVXS.B Rs, Rd", Bytes: 4, Cycles: 16,
		Execute: func(c *CPU, o *Opcode) {
			divisor := int8(c.regs.Byte(o.DHi))
			c.flags.Z = divisor == 0
			if divisor == 0 {
				c.flags.N = false
				return
			}
			dividend := int16(c.regs.Word(o.DLo))
			quotient := dividend / int16(divisor)
			remainder := dividend % int16(divisor)
			c.flags.N = int8(quotient) < 0
			c.regs.SetWord(o.DLo, uint16(uint8(remainder))<<8|uint16(uint8(quotient)))
		},
	})
	t.extended.Add(Key(0x1D05), Key(0x3), &Instruction{
		Name: "DIVXS.W Rs, ERd", Bytes: 4, Cycles: 24,
		Execute: func(c *CPU, o *Opcode) {
			divisor := int16(c.regs.Word(o.DHi))
			c.flags.Z = divisor == 0
			if divisor == 0 {
				c.flags.N = false
				return
			}
			dividend := int32(c.regs.Long(o.DLo))
			quotient := dividend / int32(divisor)
			remainder := dividend % int32(divisor)
			c.flags.N = int16(quotient) < 0
			c.regs.SetLong(o.DLo, uint32(uint16(remainder))<<16|uint32(uint16(quotient)))
		},
	})
}

// addExtend registers EXTU and EXTS. The high half of the operand is
// replaced by zeros or by copies of the sign bit of the low half.
func (t *tables) addExtend() {
	t.prefixed.Add(Key(0x17), Key(0x5), &Instruction{
		Name: "EXTU.W Rd", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.moveRegister(Word, o.BLo, uint32(c.regs.Word(o.BLo)&0xFF))
		},
	})
	t.prefixed.Add(Key(0x17), Key(0x7), &Instruction{
		Name: "EXTU.L ERd", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.moveRegister(Long, o.BLo, c.regs.Long(o.BLo)&0xFFFF)
		},
	})
	t.prefixed.Add(Key(0x17), Key(0xD), &Instruction{
		Name: "EXTS.W Rd", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.moveRegister(Word, o.BLo, disp8(uint8(c.regs.Word(o.BLo)))&0xFFFF)
		},
	})
	t.prefixed.Add(Key(0x17), Key(0xF), &Instruction{
		Name: "EXTS.L ERd", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.moveRegister(Long, o.BLo, disp16(uint16(c.regs.Long(o.BLo))))
		},
	})
}
