package cpu

// conditions indexed by the 4 bit condition field of Bcc
var conditions = [16]struct {
	name string
	test func(f *Flags) bool
}{
	{"BRA", func(*Flags) bool { return true }},
	{"BRN", func(*Flags) bool { return false }},
	{"BHI", func(f *Flags) bool { return !(f.C || f.Z) }},
	{"BLS", func(f *Flags) bool { return f.C || f.Z }},
	{"BCC", func(f *Flags) bool { return !f.C }},
	{"BCS", func(f *Flags) bool { return f.C }},
	{"BNE", func(f *Flags) bool { return !f.Z }},
	{"BEQ", func(f *Flags) bool { return f.Z }},
	{"BVC", func(f *Flags) bool { return !f.V }},
	{"BVS", func(f *Flags) bool { return f.V }},
	{"BPL", func(f *Flags) bool { return !f.N }},
	{"BMI", func(f *Flags) bool { return f.N }},
	{"BGE", func(f *Flags) bool { return f.N == f.V }},
	{"BLT", func(f *Flags) bool { return f.N != f.V }},
	{"BGT", func(f *Flags) bool { return !f.Z && f.N == f.V }},
	{"BLE", func(f *Flags) bool { return f.Z || f.N != f.V }},
}

// addBranch registers branches, jumps and returns. Displacements are
// relative to the next instruction, so taken branches add them before the
// regular PC advance. Calls and returns load PC directly and have no length.
func (t *tables) addBranch() {
	for cc, cond := range conditions {
		test := cond.test
		t.root.Add(Key(0x4), Key(uint32(cc)), &Instruction{
			Name: cond.name + " d:8", Bytes: 2, Cycles: 2,
			Execute: func(c *CPU, o *Opcode) {
				if test(&c.flags) {
					c.regs.SetPC(c.regs.PC() + disp8(o.B))
				}
			},
		})
		t.prefixed.Add(Key(0x58), Key(uint32(cc)), &Instruction{
			Name: cond.name + " d:16", Bytes: 4, Cycles: 4,
			Execute: func(c *CPU, o *Opcode) {
				if test(&c.flags) {
					c.regs.SetPC(c.regs.PC() + disp16(o.CD))
				}
			},
		})
	}

	t.root.Add(Key(0x5), Key(0x5), &Instruction{
		Name: "BSR d:8", Bytes: 0, Cycles: 6,
		Execute: func(c *CPU, o *Opcode) {
			next := c.regs.PC() + 2
			c.push(uint16(next))
			c.regs.SetPC(next + disp8(o.B))
		},
	})
	t.root.Add(Key(0x5), Key(0xC), &Instruction{
		Name: "BSR d:16", Bytes: 0, Cycles: 8,
		Execute: func(c *CPU, o *Opcode) {
			next := c.regs.PC() + 4
			c.push(uint16(next))
			c.regs.SetPC(next + disp16(o.CD))
		},
	})

	t.root.Add(Key(0x5), Key(0x9), &Instruction{
		Name: "JMP @ERn", Bytes: 0, Cycles: 4,
		Execute: func(c *CPU, o *Opcode) {
			c.regs.SetPC(uint32(c.address(o.BHi)))
		},
	})
	t.root.Add(Key(0x5), Key(0xA), &Instruction{
		Name: "JMP @aa:24", Bytes: 0, Cycles: 6,
		Execute: func(c *CPU, o *Opcode) {
			c.regs.SetPC(uint32(o.B)<<16 | uint32(o.CD))
		},
	})
	t.root.Add(Key(0x5), Key(0xD), &Instruction{
		Name: "JSR @ERn", Bytes: 0, Cycles: 6,
		Execute: func(c *CPU, o *Opcode) {
			c.push(uint16(c.regs.PC() + 2))
			c.regs.SetPC(uint32(c.address(o.BHi)))
		},
	})
	t.root.Add(Key(0x5), Key(0xE), &Instruction{
		Name: "JSR @aa:24", Bytes: 0, Cycles: 8,
		Execute: func(c *CPU, o *Opcode) {
			c.push(uint16(c.regs.PC() + 4))
			c.regs.SetPC(uint32(o.B)<<16 | uint32(o.CD))
		},
	})

	t.root.Add(Key(0x5), Key(0x4), &Instruction{
		Name: "RTS", Bytes: 0, Cycles: 8,
		Execute: func(c *CPU, _ *Opcode) {
			c.regs.SetPC(uint32(c.pop()))
		},
	})
	t.root.Add(Key(0x5), Key(0x6), &Instruction{
		Name: "RTE", Bytes: 0, Cycles: 10,
		Execute: func(c *CPU, _ *Opcode) {
			c.interrupts.restore(c)
		},
	})
}
