package cpu

import "github.com/valerio/go-pokewalker/walker/bit"

// instructionTable is the root of the decode trie, built once.
var instructionTable = buildTables().root

// tables holds every level of the decode trie while it is being built.
//
//	root      aH/aL           first byte nibbles
//	prefixed  a/bH            encodings continued by the high nibble of b
//	movl      c/dH            MOV.L, after the 01 00 prefix
//	extended  a,b,cH/cL       01 C0, 01 D0 and 01 F0 prefixes
//	bitmem    a,c/dH>>3       bit manipulation on memory, 7C to 7F
type tables struct {
	root     *Table
	prefixed *Table
	movl     *Table
	extended *Table
	bitmem   *Table
}

func buildTables() *tables {
	t := &tables{
		root:     NewTable("aH/aL", aHi, aLo),
		prefixed: NewTable("aHaL/bH", aByte, bHi),
		movl:     NewTable("0100/cHcL/dH", cByte, dHi),
		extended: NewTable("aHaLbHbLcH/cL", abcHi, cLo),
		bitmem:   NewTable("aHaLcHcL/dH3", acBytes, dHiTop),
	}

	t.root.Add(Key(0x0), Key(0x1, 0xA, 0xB, 0xF), t.prefixed)
	t.root.Add(Key(0x1), Key(0x0, 0x1, 0x2, 0x3, 0x7, 0xA, 0xB, 0xF), t.prefixed)
	t.root.Add(Key(0x5), Key(0x8), t.prefixed)
	t.root.Add(Key(0x6), Range(0x7, 0xF), t.prefixed)
	t.root.Add(Key(0x7), Key(0x7, 0x9, 0xA), t.prefixed)
	t.root.Add(Key(0x7), Range(0xC, 0xF), t.bitmem)

	t.prefixed.Add(Key(0x01), Key(0x0), t.movl)
	t.prefixed.Add(Key(0x01), Key(0xC, 0xD, 0xF), t.extended)

	t.addTransfer()
	t.addArithmetic()
	t.addLogic()
	t.addShift()
	t.addBit()
	t.addBranch()
	t.addSystem()

	return t
}

func (t *tables) addSystem() {
	t.root.Add(Key(0x0), Key(0x0), &Instruction{
		Name: "NOP", Bytes: 2, Cycles: 1,
		Execute: func(*CPU, *Opcode) {},
	})

	t.prefixed.Add(Key(0x01), Key(0x8), &Instruction{
		Name: "SLEEP", Bytes: 2, Cycles: 2,
		Execute: func(c *CPU, _ *Opcode) {
			c.sleeping = true
		},
	})
}

// sized describes one operand width of an instruction family.
type sized struct {
	size   Size
	suffix string
}

var (
	dotB = sized{Byte, ".B"}
	dotW = sized{Word, ".W"}
	dotL = sized{Long, ".L"}
)

// Bytes returns the operand width in bytes.
func (s Size) Bytes() uint32 {
	return uint32(s) / 8
}

func (c *CPU) load(size Size, address uint16) uint32 {
	switch size {
	case Byte:
		return uint32(c.bus.ReadByte(address))
	case Word:
		return uint32(c.bus.ReadShort(address))
	default:
		return c.bus.ReadInt(address)
	}
}

func (c *CPU) store(size Size, address uint16, value uint32) {
	switch size {
	case Byte:
		c.bus.WriteByte(address, uint8(value))
	case Word:
		c.bus.WriteShort(address, uint16(value))
	default:
		c.bus.WriteInt(address, value)
	}
}

// disp8 and disp16 sign extend a displacement for address arithmetic.
func disp8(value uint8) uint32 {
	return uint32(bit.SignExtend8(value))
}

func disp16(value uint16) uint32 {
	return uint32(bit.SignExtend16(value))
}

// address returns ERn truncated to the 16 bit address space.
func (c *CPU) address(ern uint8) uint16 {
	return uint16(c.regs.Long(ern))
}
