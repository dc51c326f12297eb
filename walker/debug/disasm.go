package debug

import (
	"fmt"
	"strings"

	"github.com/valerio/go-pokewalker/walker/cpu"
)

// DisassemblyLine is a single disassembled instruction.
type DisassemblyLine struct {
	Address     uint32
	Instruction string
	Length      int
}

func (l DisassemblyLine) String() string {
	return fmt.Sprintf("%04X: %s", l.Address, l.Instruction)
}

// controlLengths are the sizes of the instructions that load PC themselves,
// keyed by their first byte.
var controlLengths = map[uint8]int{
	0x54: 2, // RTS
	0x55: 2, // BSR d:8
	0x56: 2, // RTE
	0x59: 2, // JMP @ERn
	0x5A: 4, // JMP @aa:24
	0x5C: 4, // BSR d:16
	0x5D: 2, // JSR @ERn
	0x5E: 4, // JSR @aa:24
}

// DisassembleAt decodes the instruction at pc. Undecodable words are shown
// as data.
func DisassembleAt(bus cpu.Bus, pc uint32) DisassemblyLine {
	inst, o, err := cpu.Decode(bus, pc)
	if err != nil {
		return DisassemblyLine{
			Address:     pc,
			Instruction: fmt.Sprintf(".word 0x%02X%02X", o.A, o.B),
			Length:      2,
		}
	}

	length := int(inst.Bytes)
	if length == 0 {
		length = controlLengths[o.A]
		if length == 0 {
			length = 2
		}
	}

	raw := o.Bytes()
	hex := make([]string, length)
	for i := range hex {
		hex[i] = fmt.Sprintf("%02X", raw[i])
	}

	return DisassemblyLine{
		Address:     pc,
		Instruction: fmt.Sprintf("%-12s %s", strings.Join(hex, " "), inst.Name),
		Length:      length,
	}
}

// Disassemble decodes count consecutive instructions starting at pc.
func Disassemble(bus cpu.Bus, pc uint32, count int) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	for range count {
		line := DisassembleAt(bus, pc)
		lines = append(lines, line)
		pc = uint32(uint16(pc + uint32(line.Length)))
	}
	return lines
}
