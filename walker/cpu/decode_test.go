package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pokewalker/walker/memory"
)

func decodeAt(t *testing.T, program ...byte) (*Instruction, error) {
	t.Helper()
	mem := memory.New("decode")
	copy(mem.Data()[programStart:], program)
	inst, _, err := instructionTable.Decode(mem, programStart)
	return inst, err
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		program  []byte
		expected string
		bytes    uint32
	}{
		{"nop", []byte{0x00, 0x00}, "NOP", 2},
		{"mov byte register", []byte{0x0C, 0x8A}, "MOV.B Rs, Rd", 2},
		{"mov word immediate", []byte{0x79, 0x02, 0x12, 0x34}, "MOV.W #xx:16, Rd", 4},
		{"mov long immediate", []byte{0x7A, 0x00, 0x00, 0x01, 0x00, 0x00}, "MOV.L #xx:32, ERd", 6},
		{"mov long pre-decrement", []byte{0x01, 0x00, 0x6D, 0xF6}, "MOV.L ERs, @-ERd", 4},
		{"mov long absolute 24", []byte{0x01, 0x00, 0x6B, 0x20, 0x00, 0x00, 0x12, 0x34}, "MOV.L @aa:24, ERd", 8},
		{"mov byte absolute 8", []byte{0x28, 0x9C}, "MOV.B @aa:8, Rd", 2},
		{"mov word store displacement", []byte{0x6F, 0xF0, 0x00, 0x10}, "MOV.W Rs, @(d:16, ERd)", 4},
		{"and long", []byte{0x01, 0xF0, 0x66, 0x12}, "AND.L ERs, ERd", 4},
		{"signed divide word", []byte{0x01, 0xD0, 0x53, 0x12}, "DIVXS.W Rs, ERd", 4},
		{"signed multiply byte", []byte{0x01, 0xC0, 0x50, 0x12}, "MULXS.B Rs, Rd", 4},
		{"bit set on register pointer", []byte{0x7D, 0x10, 0x70, 0x30}, "BSET #xx:3, @ERd", 4},
		{"bit clear with low register", []byte{0x7F, 0x80, 0x62, 0x80}, "BCLR Rn, @aa:8", 4},
		{"bit store", []byte{0x7D, 0x10, 0x67, 0x10}, "BST #xx:3, @ERd", 4},
		{"branch 16", []byte{0x58, 0x70, 0x00, 0x10}, "BEQ d:16", 4},
		{"branch 8", []byte{0x4E, 0x04}, "BGT d:8", 2},
		{"adds", []byte{0x0B, 0x97}, "ADDS #4, ERd", 2},
		{"inc word by two", []byte{0x0B, 0xD0}, "INC.W #2, Rd", 2},
		{"dec long", []byte{0x1B, 0x71}, "DEC.L #1, Rd", 2},
		{"sign extend long", []byte{0x17, 0xF0}, "EXTS.L ERd", 2},
		{"rotate", []byte{0x12, 0x8A}, "ROTL.B Rd", 2},
		{"shift arithmetic long", []byte{0x11, 0xB2}, "SHAR.L Rd", 2},
		{"sleep", []byte{0x01, 0x80}, "SLEEP", 2},
		{"return", []byte{0x54, 0x70}, "RTS", 0},
		{"or immediate", []byte{0xC8, 0x01}, "OR.B #xx:8, Rd", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := decodeAt(t, tt.program...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, inst.Name)
			assert.Equal(t, tt.bytes, inst.Bytes)
		})
	}
}

func TestDecodeUnknown(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		table   string
	}{
		{"trap", []byte{0x57, 0x30}, "aH/aL"},
		{"mov displacement 24", []byte{0x01, 0x00, 0x78, 0x00}, "0100/cHcL/dH"},
		{"bit or on memory", []byte{0x7C, 0x00, 0x74, 0x00}, "aHaLcHcL/dH3"},
		{"decimal adjust", []byte{0x0F, 0x00}, "aHaL/bH"},
		{"long prefix", []byte{0x01, 0xF0, 0x67, 0x00}, "aHaLbHbLcH/cL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeAt(t, tt.program...)
			require.Error(t, err)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, uint32(programStart), decodeErr.PC)
			assert.Equal(t, tt.table, decodeErr.Table)
			assert.Equal(t, tt.program[0], decodeErr.Bytes[0])
		})
	}
}

func TestNopLeavesStateUnchanged(t *testing.T) {
	c, _ := newTestCPU(t, 0x00, 0x00)
	c.regs.SetLong(0, 0x11223344)
	c.flags.SetCCR(0x85)
	before := c.regs
	ccr := c.flags.CCR()

	cycles, err := c.Step()
	require.NoError(t, err)

	assert.Equal(t, 1, cycles)
	assert.Equal(t, uint32(programStart+2), c.GetPC())
	before.SetPC(programStart + 2)
	assert.Equal(t, before, c.regs)
	assert.Equal(t, ccr, c.flags.CCR())
}

func TestUnimplementedFailsLoudly(t *testing.T) {
	for _, program := range [][]byte{
		{0x67, 0x88},             // BIST #0, R0L
		{0x77, 0x88},             // BILD #0, R0L
		{0x7D, 0x10, 0x67, 0x80}, // BIST #0, @ER1
	} {
		c, _ := newTestCPU(t, program...)

		_, err := c.Step()
		require.Error(t, err)

		var unimplemented *UnimplementedError
		require.True(t, errors.As(err, &unimplemented))
		assert.Equal(t, uint32(programStart), unimplemented.PC)
		assert.Contains(t, unimplemented.Name, "BI")
		assert.Equal(t, uint32(programStart), c.GetPC(), "pc must not move")
	}
}

func TestTableRegistration(t *testing.T) {
	t.Run("duplicate key panics", func(t *testing.T) {
		table := NewTable("test", aHi, aLo)
		table.Add(Key(1), Range(0, 3), &Instruction{Name: "A"})
		assert.Panics(t, func() {
			table.Add(Key(1), Key(2), &Instruction{Name: "B"})
		})
	})

	t.Run("range is inclusive", func(t *testing.T) {
		assert.Equal(t, Keys{0x8, 0x9, 0xA}, Range(0x8, 0xA))
	})

	t.Run("key lists fan out", func(t *testing.T) {
		table := NewTable("test", aHi, aLo)
		table.Add(Key(1, 2), Key(3, 4), &Instruction{Name: "A"})
		assert.Equal(t, 4, table.Len())
	})
}

func TestDecodeIntoRefreshesWindow(t *testing.T) {
	mem := memory.New("decode")
	copy(mem.Data()[programStart:], []byte{0x0C, 0x8A, 0x79, 0x02, 0x12, 0x34})

	var o Opcode
	inst, err := instructionTable.DecodeInto(&o, mem, programStart)
	require.NoError(t, err)
	assert.Equal(t, "MOV.B Rs, Rd", inst.Name)
	assert.Equal(t, uint16(0x0C8A), o.AB)

	inst, err = instructionTable.DecodeInto(&o, mem, programStart+2)
	require.NoError(t, err)
	assert.Equal(t, "MOV.W #xx:16, Rd", inst.Name)
	assert.Equal(t, uint16(0x1234), o.CD)
}

func TestStepDoesNotAllocate(t *testing.T) {
	// zeroed memory decodes as NOP everywhere
	c, _ := newTestCPU(t)

	allocs := testing.AllocsPerRun(100, func() {
		_, err := c.Step()
		if err != nil {
			t.Fatal(err)
		}
	})
	assert.Zero(t, allocs)
}
