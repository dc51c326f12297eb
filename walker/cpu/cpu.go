package cpu

// Bus is the memory seen by the CPU. *memory.Memory satisfies it.
type Bus interface {
	PeekByte(address uint16) uint8
	ReadByte(address uint16) uint8
	ReadShort(address uint16) uint16
	ReadInt(address uint16) uint32
	WriteByte(address uint16, value uint8)
	WriteShort(address uint16, value uint16)
	WriteInt(address uint16, value uint32)
	SetBits(address uint16, mask uint8)
	ClearBits(address uint16, mask uint8)
}

// CPU is the H8/300H core running in normal (64KiB) mode.
type CPU struct {
	regs  Registers
	flags Flags
	bus   Bus

	interrupts   *Interrupts
	interceptors map[uint32]Interceptor

	sleeping     bool
	instructions uint64
	cycles       uint64

	// window refreshed for every instruction
	opcode Opcode

	// last decoded instruction, kept for diagnostics
	last *Instruction
}

// New creates a CPU attached to bus and resets it.
func New(bus Bus) *CPU {
	c := &CPU{
		bus:          bus,
		interrupts:   NewInterrupts(bus),
		interceptors: make(map[uint32]Interceptor),
	}
	c.Reset()
	return c
}

// Reset loads PC from the reset vector and masks interrupts.
func (c *CPU) Reset() {
	c.regs = Registers{}
	c.flags = Flags{I: true}
	c.sleeping = false
	c.regs.SetPC(uint32(c.bus.ReadShort(VectorReset)))
}

// Step runs one instruction, or one idle cycle while sleeping, then polls
// the interrupt controller. It returns the cycles consumed.
func (c *CPU) Step() (int, error) {
	cycles := 1

	action := Continue
	if interceptor, ok := c.interceptors[c.regs.PC()]; ok {
		action = interceptor(c)
	}

	if !c.sleeping && action != SkipInstruction {
		n, err := c.execute()
		if err != nil {
			return 0, err
		}
		cycles = n
		c.instructions++
	}

	if !c.flags.I {
		c.interrupts.Update(c)
	}

	c.cycles += uint64(cycles)
	return cycles, nil
}

func (c *CPU) execute() (int, error) {
	pc := c.regs.PC()
	inst, err := instructionTable.DecodeInto(&c.opcode, c.bus, pc)
	if err != nil {
		return 0, err
	}
	if inst.Unimplemented {
		return 0, &UnimplementedError{Name: inst.Name, PC: pc}
	}

	c.last = inst
	inst.Execute(c, &c.opcode)
	c.regs.SetPC(c.regs.PC() + inst.Bytes)
	return inst.Cycles, nil
}

// OnAddress registers interceptor to run whenever PC reaches address,
// replacing any previous one.
func (c *CPU) OnAddress(address uint32, interceptor Interceptor) {
	c.interceptors[address] = interceptor
}

// RemoveAddress drops the interceptor at address, if any.
func (c *CPU) RemoveAddress(address uint32) {
	delete(c.interceptors, address)
}

func (c *CPU) Registers() *Registers {
	return &c.regs
}

func (c *CPU) Flags() *Flags {
	return &c.flags
}

func (c *CPU) Bus() Bus {
	return c.bus
}

func (c *CPU) Interrupts() *Interrupts {
	return c.interrupts
}

// GetPC returns the program counter.
func (c *CPU) GetPC() uint32 {
	return c.regs.PC()
}

// SetPC moves the program counter.
func (c *CPU) SetPC(pc uint32) {
	c.regs.SetPC(pc)
}

// IsSleeping reports whether SLEEP stopped instruction fetch.
func (c *CPU) IsSleeping() bool {
	return c.sleeping
}

// GetInstructionCount returns the number of instructions executed.
func (c *CPU) GetInstructionCount() uint64 {
	return c.instructions
}

// GetCycles returns the number of cycles consumed by Step.
func (c *CPU) GetCycles() uint64 {
	return c.cycles
}

// LastInstruction returns the name of the last executed instruction.
func (c *CPU) LastInstruction() string {
	if c.last == nil {
		return ""
	}
	return c.last.Name
}

func (c *CPU) push(value uint16) {
	sp := c.regs.SP() - 2
	c.regs.SetSP(sp)
	c.bus.WriteShort(uint16(sp), value)
}

func (c *CPU) pop() uint16 {
	sp := c.regs.SP()
	value := c.bus.ReadShort(uint16(sp))
	c.regs.SetSP(sp + 2)
	return value
}

func (c *CPU) String() string {
	return c.regs.String() + " CCR=" + c.flags.String()
}
