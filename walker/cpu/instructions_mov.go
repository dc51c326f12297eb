package cpu

func (c *CPU) moveLoad(size Size, address uint16, rd uint8) {
	value := c.load(size, address)
	c.flags.setMov(value, size)
	c.regs.Set(size, rd, value)
}

func (c *CPU) moveStore(size Size, address uint16, rs uint8) {
	value := c.regs.Get(size, rs)
	c.flags.setMov(value, size)
	c.store(size, address, value)
}

func (c *CPU) moveRegister(size Size, rd uint8, value uint32) {
	c.flags.setMov(value, size)
	c.regs.Set(size, rd, value)
}

// addTransfer registers the MOV family. Byte and word forms keep their
// operands in b, the long forms sit behind the 01 00 prefix and keep them in d.
func (t *tables) addTransfer() {
	t.addMoveRegister()
	t.addMoveByteWord()
	t.addMoveLong()
}

func (t *tables) addMoveRegister() {
	t.root.Add(Key(0x0), Key(0xC), &Instruction{
		Name: "MOV.B Rs, Rd", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.moveRegister(Byte, o.BLo, uint32(c.regs.Byte(o.BHi)))
		},
	})
	t.root.Add(Key(0x0), Key(0xD), &Instruction{
		Name: "MOV.W Rs, Rd", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.moveRegister(Word, o.BLo, uint32(c.regs.Word(o.BHi)))
		},
	})
	t.prefixed.Add(Key(0x0F), Range(0x8, 0xF), &Instruction{
		Name: "MOV.L ERs, ERd", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.moveRegister(Long, o.BLo, c.regs.Long(o.BHi))
		},
	})

	t.root.Add(Key(0xF), Range(0x0, 0xF), &Instruction{
		Name: "MOV.B #xx:8, Rd", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, o *Opcode) {
			c.moveRegister(Byte, o.ALo, uint32(o.B))
		},
	})
	t.prefixed.Add(Key(0x79), Key(0x0), &Instruction{
		Name: "MOV.W #xx:16, Rd", Bytes: 4, Cycles: 4,
		Execute: func(c *CPU, o *Opcode) {
			c.moveRegister(Word, o.BLo, uint32(o.CD))
		},
	})
	t.prefixed.Add(Key(0x7A), Key(0x0), &Instruction{
		Name: "MOV.L #xx:32, ERd", Bytes: 6, Cycles: 6,
		Execute: func(c *CPU, o *Opcode) {
			c.moveRegister(Long, o.BLo, o.CDEF)
		},
	})
}

func (t *tables) addMoveByteWord() {
	t.root.Add(Key(0x2), Range(0x0, 0xF), &Instruction{
		Name: "MOV.B @aa:8, Rd", Bytes: 2, Cycles: 4,
		Execute: func(c *CPU, o *Opcode) {
			c.moveLoad(Byte, 0xFF00|uint16(o.B), o.ALo)
		},
	})
	t.root.Add(Key(0x3), Range(0x0, 0xF), &Instruction{
		Name: "MOV.B Rs, @aa:8", Bytes: 2, Cycles: 4,
		Execute: func(c *CPU, o *Opcode) {
			c.moveStore(Byte, 0xFF00|uint16(o.B), o.ALo)
		},
	})

	for _, form := range []struct {
		sized
		indirect, postInc, disp16, absolute uint32
	}{
		{dotB, 0x68, 0x6C, 0x6E, 0x6A},
		{dotW, 0x69, 0x6D, 0x6F, 0x6B},
	} {
		size := form.size

		// @ERs / @ERd, bH bit 3 picks the store direction
		t.prefixed.Add(Key(form.indirect), Range(0x0, 0x7), &Instruction{
			Name: "MOV" + form.suffix + " @ERs, Rd", Bytes: 2, Cycles: 4,
			Execute: func(c *CPU, o *Opcode) {
				c.moveLoad(size, c.address(o.BHi), o.BLo)
			},
		})
		t.prefixed.Add(Key(form.indirect), Range(0x8, 0xF), &Instruction{
			Name: "MOV" + form.suffix + " Rs, @ERd", Bytes: 2, Cycles: 4,
			Execute: func(c *CPU, o *Opcode) {
				c.moveStore(size, c.address(o.BHi), o.BLo)
			},
		})

		t.prefixed.Add(Key(form.postInc), Range(0x0, 0x7), &Instruction{
			Name: "MOV" + form.suffix + " @ERs+, Rd", Bytes: 2, Cycles: 6,
			Execute: func(c *CPU, o *Opcode) {
				ers := o.BHi
				c.moveLoad(size, c.address(ers), o.BLo)
				c.regs.SetLong(ers, c.regs.Long(ers)+size.Bytes())
			},
		})
		t.prefixed.Add(Key(form.postInc), Range(0x8, 0xF), &Instruction{
			Name: "MOV" + form.suffix + " Rs, @-ERd", Bytes: 2, Cycles: 6,
			Execute: func(c *CPU, o *Opcode) {
				erd := o.BHi
				c.regs.SetLong(erd, c.regs.Long(erd)-size.Bytes())
				c.moveStore(size, c.address(erd), o.BLo)
			},
		})

		t.prefixed.Add(Key(form.disp16), Range(0x0, 0x7), &Instruction{
			Name: "MOV" + form.suffix + " @(d:16, ERs), Rd", Bytes: 4, Cycles: 6,
			Execute: func(c *CPU, o *Opcode) {
				c.moveLoad(size, uint16(c.regs.Long(o.BHi)+disp16(o.CD)), o.BLo)
			},
		})
		t.prefixed.Add(Key(form.disp16), Range(0x8, 0xF), &Instruction{
			Name: "MOV" + form.suffix + " Rs, @(d:16, ERd)", Bytes: 4, Cycles: 6,
			Execute: func(c *CPU, o *Opcode) {
				c.moveStore(size, uint16(c.regs.Long(o.BHi)+disp16(o.CD)), o.BLo)
			},
		})

		t.prefixed.Add(Key(form.absolute), Key(0x0), &Instruction{
			Name: "MOV" + form.suffix + " @aa:16, Rd", Bytes: 4, Cycles: 6,
			Execute: func(c *CPU, o *Opcode) {
				c.moveLoad(size, o.CD, o.BLo)
			},
		})
		t.prefixed.Add(Key(form.absolute), Key(0x2), &Instruction{
			Name: "MOV" + form.suffix + " @aa:24, Rd", Bytes: 6, Cycles: 8,
			Execute: func(c *CPU, o *Opcode) {
				c.moveLoad(size, o.EF, o.BLo)
			},
		})
		t.prefixed.Add(Key(form.absolute), Key(0x8), &Instruction{
			Name: "MOV" + form.suffix + " Rs, @aa:16", Bytes: 4, Cycles: 6,
			Execute: func(c *CPU, o *Opcode) {
				c.moveStore(size, o.CD, o.BLo)
			},
		})
		t.prefixed.Add(Key(form.absolute), Key(0xA), &Instruction{
			Name: "MOV" + form.suffix + " Rs, @aa:24", Bytes: 6, Cycles: 8,
			Execute: func(c *CPU, o *Opcode) {
				c.moveStore(size, o.EF, o.BLo)
			},
		})
	}
}

// addMoveLong registers MOV.L with memory operands. After the 01 00 prefix
// the pointer register is in dH (bit 3 selects the store direction) and the
// data register in dL.
func (t *tables) addMoveLong() {
	t.movl.Add(Key(0x69), Range(0x0, 0x7), &Instruction{
		Name: "MOV.L @ERs, ERd", Bytes: 4, Cycles: 8,
		Execute: func(c *CPU, o *Opcode) {
			c.moveLoad(Long, c.address(o.DHi), o.DLo)
		},
	})
	t.movl.Add(Key(0x69), Range(0x8, 0xF), &Instruction{
		Name: "MOV.L ERs, @ERd", Bytes: 4, Cycles: 8,
		Execute: func(c *CPU, o *Opcode) {
			c.moveStore(Long, c.address(o.DHi), o.DLo)
		},
	})

	t.movl.Add(Key(0x6D), Range(0x0, 0x7), &Instruction{
		Name: "MOV.L @ERs+, ERd", Bytes: 4, Cycles: 10,
		Execute: func(c *CPU, o *Opcode) {
			ers := o.DHi
			c.moveLoad(Long, c.address(ers), o.DLo)
			c.regs.SetLong(ers, c.regs.Long(ers)+4)
		},
	})
	t.movl.Add(Key(0x6D), Range(0x8, 0xF), &Instruction{
		Name: "MOV.L ERs, @-ERd", Bytes: 4, Cycles: 10,
		Execute: func(c *CPU, o *Opcode) {
			erd := o.DHi
			c.regs.SetLong(erd, c.regs.Long(erd)-4)
			c.moveStore(Long, c.address(erd), o.DLo)
		},
	})

	t.movl.Add(Key(0x6F), Range(0x0, 0x7), &Instruction{
		Name: "MOV.L @(d:16, ERs), ERd", Bytes: 6, Cycles: 10,
		Execute: func(c *CPU, o *Opcode) {
			c.moveLoad(Long, uint16(c.regs.Long(o.DHi)+disp16(o.EF)), o.DLo)
		},
	})
	t.movl.Add(Key(0x6F), Range(0x8, 0xF), &Instruction{
		Name: "MOV.L ERs, @(d:16, ERd)", Bytes: 6, Cycles: 10,
		Execute: func(c *CPU, o *Opcode) {
			c.moveStore(Long, uint16(c.regs.Long(o.DHi)+disp16(o.EF)), o.DLo)
		},
	})

	t.movl.Add(Key(0x6B), Key(0x0), &Instruction{
		Name: "MOV.L @aa:16, ERd", Bytes: 6, Cycles: 10,
		Execute: func(c *CPU, o *Opcode) {
			c.moveLoad(Long, o.EF, o.DLo)
		},
	})
	t.movl.Add(Key(0x6B), Key(0x2), &Instruction{
		Name: "MOV.L @aa:24, ERd", Bytes: 8, Cycles: 12,
		Execute: func(c *CPU, o *Opcode) {
			c.moveLoad(Long, o.GH, o.DLo)
		},
	})
	t.movl.Add(Key(0x6B), Key(0x8), &Instruction{
		Name: "MOV.L ERs, @aa:16", Bytes: 6, Cycles: 10,
		Execute: func(c *CPU, o *Opcode) {
			c.moveStore(Long, o.EF, o.DLo)
		},
	})
	t.movl.Add(Key(0x6B), Key(0xA), &Instruction{
		Name: "MOV.L ERs, @aa:24", Bytes: 8, Cycles: 12,
		Execute: func(c *CPU, o *Opcode) {
			c.moveStore(Long, o.GH, o.DLo)
		},
	})
}
