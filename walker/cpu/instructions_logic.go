package cpu

func (c *CPU) and(size Size, rd uint8, value uint32) {
	c.moveRegister(size, rd, c.regs.Get(size, rd)&value)
}

func (c *CPU) or(size Size, rd uint8, value uint32) {
	c.moveRegister(size, rd, c.regs.Get(size, rd)|value)
}

func (c *CPU) xor(size Size, rd uint8, value uint32) {
	c.moveRegister(size, rd, c.regs.Get(size, rd)^value)
}

func (t *tables) addLogic() {
	for _, op := range []struct {
		name   string
		fn     func(c *CPU, size Size, rd uint8, value uint32)
		aL     uint32 // .B Rs, Rd in 1x and .W Rs, Rd in 6x
		imm8   uint32 // aH of the .B #xx:8 form
		imm    uint32 // bH of the 79/7A immediate forms
		longCL uint32 // cL of the 01 F0 6x register form
	}{
		{"OR", (*CPU).or, 0x4, 0xC, 0x4, 0x4},
		{"XOR", (*CPU).xor, 0x5, 0xD, 0x5, 0x5},
		{"AND", (*CPU).and, 0x6, 0xE, 0x6, 0x6},
	} {
		fn := op.fn
		t.root.Add(Key(0x1), Key(op.aL), registerOp(op.name+".B Rs, Rd", Byte, fn))
		t.root.Add(Key(0x6), Key(op.aL), registerOp(op.name+".W Rs, Rd", Word, fn))
		t.extended.Add(Key(0x1F06), Key(op.longCL), &Instruction{
			Name: op.name + ".L ERs, ERd", Bytes: 4, Cycles: 4,
			Execute: func(c *CPU, o *Opcode) {
				fn(c, Long, o.DLo, c.regs.Long(o.DHi))
			},
		})

		t.root.Add(Key(op.imm8), Range(0x0, 0xF), &Instruction{
			Name: op.name + ".B #xx:8, Rd", Bytes: 2, Cycles: 2,
			Execute: func(c *CPU, o *Opcode) {
				fn(c, Byte, o.ALo, uint32(o.B))
			},
		})
		t.prefixed.Add(Key(0x79), Key(op.imm), wordImmediate(op.name, fn))
		t.prefixed.Add(Key(0x7A), Key(op.imm), longImmediate(op.name, fn))
	}

	for _, n := range []struct {
		sized
		bH uint32
	}{
		{dotB, 0x0}, {dotW, 0x1}, {dotL, 0x3},
	} {
		size := n.size
		t.prefixed.Add(Key(0x17), Key(n.bH), &Instruction{
			Name: "NOT" + n.suffix + " Rd", Bytes: 2, Cycles: 2,
			Execute: func(c *CPU, o *Opcode) {
				c.moveRegister(size, o.BLo, ^c.regs.Get(size, o.BLo))
			},
		})
	}

	t.addControl()
}

// addControl registers the instructions operating on the CCR.
func (t *tables) addControl() {
	t.root.Add(Key(0x0), Key(0x2), &Instruction{
		Name: "STC CCR, Rd", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.regs.SetByte(o.BLo, c.flags.CCR())
		},
	})
	t.root.Add(Key(0x0), Key(0x3), &Instruction{
		Name: "LDC Rs, CCR", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.flags.SetCCR(c.regs.Byte(o.BLo))
		},
	})
	t.root.Add(Key(0x0), Key(0x7), &Instruction{
		Name: "LDC #xx:8, CCR", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.flags.SetCCR(o.B)
		},
	})
	t.root.Add(Key(0x0), Key(0x4), &Instruction{
		Name: "ORC #xx:8, CCR", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.flags.SetCCR(c.flags.CCR() | o.B)
		},
	})
	t.root.Add(Key(0x0), Key(0x5), &Instruction{
		Name: "XORC #xx:8, CCR", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.flags.SetCCR(c.flags.CCR() ^ o.B)
		},
	})
	t.root.Add(Key(0x0), Key(0x6), &Instruction{
		Name: "ANDC #xx:8, CCR", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.flags.SetCCR(c.flags.CCR() & o.B)
		},
	})
}
