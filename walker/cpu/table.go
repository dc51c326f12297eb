package cpu

import "fmt"

// Instruction describes one decoded encoding. Execute runs with the decode
// window of the current PC; afterwards the CPU advances PC by Bytes, so
// instructions that load PC themselves declare Bytes as 0.
type Instruction struct {
	Name    string
	Bytes   uint32
	Cycles  int
	Execute func(c *CPU, o *Opcode)

	// Unimplemented marks encodings that are recognized but not emulated.
	Unimplemented bool
}

// Node is an entry of a decode table: either an *Instruction or a nested *Table.
type Node interface {
	node()
}

func (*Instruction) node() {}
func (*Table) node()       {}

// Extractor pulls a key out of the decode window.
type Extractor func(o *Opcode) uint32

// Keys is a list of values registered for one extractor.
type Keys []uint32

// Key returns the given values as a key list.
func Key(values ...uint32) Keys {
	return values
}

// Range returns every value in [lo, hi].
func Range(lo, hi uint32) Keys {
	keys := make(Keys, 0, hi-lo+1)
	for k := lo; k <= hi; k++ {
		keys = append(keys, k)
	}
	return keys
}

type tableKey struct {
	first, second uint32
}

// Table is a decode trie level. It dispatches on the pair of values
// produced by its two extractors, matching them exactly.
type Table struct {
	name     string
	first    Extractor
	second   Extractor
	children map[tableKey]Node
}

// NewTable creates an empty table.
func NewTable(name string, first, second Extractor) *Table {
	return &Table{
		name:     name,
		first:    first,
		second:   second,
		children: make(map[tableKey]Node),
	}
}

// Name returns the table name used in decode errors.
func (t *Table) Name() string {
	return t.name
}

// Add registers child under every combination of first and second keys.
// Registering the same pair twice is a programming error and panics.
func (t *Table) Add(first, second Keys, child Node) *Table {
	for _, k1 := range first {
		for _, k2 := range second {
			key := tableKey{k1, k2}
			if _, exists := t.children[key]; exists {
				panic(fmt.Sprintf("cpu: table %s: duplicate entry 0x%X/0x%X", t.name, k1, k2))
			}
			t.children[key] = child
		}
	}
	return t
}

// Len returns the number of registered key pairs.
func (t *Table) Len() int {
	return len(t.children)
}

// Decode resolves the instruction at pc. The window is filled once, every
// level below the root reads the same bytes.
func (t *Table) Decode(bus Bus, pc uint32) (*Instruction, *Opcode, error) {
	o := &Opcode{}
	inst, err := t.DecodeInto(o, bus, pc)
	return inst, o, err
}

// DecodeInto is Decode refreshing a caller-owned window instead of
// allocating one.
func (t *Table) DecodeInto(o *Opcode, bus Bus, pc uint32) (*Instruction, error) {
	o.Update(bus, pc)
	inst, err := t.lookup(o)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.PC = pc
		}
		return nil, err
	}
	return inst, nil
}

func (t *Table) lookup(o *Opcode) (*Instruction, error) {
	current := t
	for {
		key := tableKey{current.first(o), current.second(o)}
		child, ok := current.children[key]
		if !ok {
			return nil, &DecodeError{Bytes: o.Bytes(), Table: current.name}
		}

		switch n := child.(type) {
		case *Instruction:
			return n, nil
		case *Table:
			current = n
		}
	}
}

// extractors shared by the tables

func aHi(o *Opcode) uint32 { return uint32(o.AHi) }
func aLo(o *Opcode) uint32 { return uint32(o.ALo) }
func aByte(o *Opcode) uint32 { return uint32(o.A) }
func bHi(o *Opcode) uint32 { return uint32(o.BHi) }
func cByte(o *Opcode) uint32 { return uint32(o.C) }
func dHi(o *Opcode) uint32 { return uint32(o.DHi) }

func abcHi(o *Opcode) uint32 {
	return uint32(o.A)<<12 | uint32(o.B)<<4 | uint32(o.CHi)
}

func cLo(o *Opcode) uint32 { return uint32(o.CLo) }

func acBytes(o *Opcode) uint32 {
	return uint32(o.A)<<8 | uint32(o.C)
}

// dHiTop is the top bit of dH. The bit memory forms use it to tell the
// register form from the immediate form, or BST from BIST.
func dHiTop(o *Opcode) uint32 { return uint32(o.DHi >> 3) }

// Decode resolves the instruction at pc without executing it.
func Decode(bus Bus, pc uint32) (*Instruction, *Opcode, error) {
	return instructionTable.Decode(bus, pc)
}
