package cpu

import "fmt"

// Size is the operand width of an instruction.
type Size uint8

const (
	Byte Size = 8
	Word Size = 16
	Long Size = 32
)

// Mask returns the all-ones value for the size.
func (s Size) Mask() uint32 {
	if s == Long {
		return 0xFFFFFFFF
	}
	return (1 << s) - 1
}

// Sign returns the sign bit for the size.
func (s Size) Sign() uint32 {
	return 1 << (s - 1)
}

// Registers is the H8/300H general register file. Each of the eight 32 bit
// registers ERn is split into En (high word) and Rn (low word), and Rn into
// RnH and RnL. All views alias the same storage.
type Registers struct {
	er [8]uint32
	pc uint32
}

// Byte returns an 8 bit register. Selector bit 3 picks RnL, otherwise RnH.
func (r *Registers) Byte(sel uint8) uint8 {
	n := sel & 7
	if sel&8 != 0 {
		return uint8(r.er[n])
	}
	return uint8(r.er[n] >> 8)
}

func (r *Registers) SetByte(sel uint8, value uint8) {
	n := sel & 7
	if sel&8 != 0 {
		r.er[n] = r.er[n]&^0xFF | uint32(value)
		return
	}
	r.er[n] = r.er[n]&^0xFF00 | uint32(value)<<8
}

// Word returns a 16 bit register. Selector bit 3 picks En, otherwise Rn.
func (r *Registers) Word(sel uint8) uint16 {
	n := sel & 7
	if sel&8 != 0 {
		return uint16(r.er[n] >> 16)
	}
	return uint16(r.er[n])
}

func (r *Registers) SetWord(sel uint8, value uint16) {
	n := sel & 7
	if sel&8 != 0 {
		r.er[n] = r.er[n]&0x0000FFFF | uint32(value)<<16
		return
	}
	r.er[n] = r.er[n]&0xFFFF0000 | uint32(value)
}

// Long returns ERn, only the low 3 selector bits are used.
func (r *Registers) Long(sel uint8) uint32 {
	return r.er[sel&7]
}

func (r *Registers) SetLong(sel uint8, value uint32) {
	r.er[sel&7] = value
}

// Get reads a register of the given size.
func (r *Registers) Get(size Size, sel uint8) uint32 {
	switch size {
	case Byte:
		return uint32(r.Byte(sel))
	case Word:
		return uint32(r.Word(sel))
	case Long:
		return r.Long(sel)
	default:
		panic(fmt.Sprintf("cpu: invalid register size %d", size))
	}
}

// Set writes a register of the given size, value is truncated to it.
func (r *Registers) Set(size Size, sel uint8, value uint32) {
	switch size {
	case Byte:
		r.SetByte(sel, uint8(value))
	case Word:
		r.SetWord(sel, uint16(value))
	case Long:
		r.SetLong(sel, value)
	default:
		panic(fmt.Sprintf("cpu: invalid register size %d", size))
	}
}

// SP is ER7.
func (r *Registers) SP() uint32 {
	return r.er[7]
}

func (r *Registers) SetSP(value uint32) {
	r.er[7] = value
}

// PC is the 24 bit program counter.
func (r *Registers) PC() uint32 {
	return r.pc
}

func (r *Registers) SetPC(value uint32) {
	r.pc = value & 0xFFFFFF
}

func (r *Registers) String() string {
	return fmt.Sprintf("ER0=%08X ER1=%08X ER2=%08X ER3=%08X ER4=%08X ER5=%08X ER6=%08X SP=%08X PC=%06X",
		r.er[0], r.er[1], r.er[2], r.er[3], r.er[4], r.er[5], r.er[6], r.er[7], r.pc)
}

// ByteName returns the assembler name of an 8 bit register selector.
func ByteName(sel uint8) string {
	if sel&8 != 0 {
		return fmt.Sprintf("R%dL", sel&7)
	}
	return fmt.Sprintf("R%dH", sel&7)
}

// WordName returns the assembler name of a 16 bit register selector.
func WordName(sel uint8) string {
	if sel&8 != 0 {
		return fmt.Sprintf("E%d", sel&7)
	}
	return fmt.Sprintf("R%d", sel&7)
}
