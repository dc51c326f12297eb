package debug

import (
	"fmt"

	"github.com/valerio/go-pokewalker/walker/cpu"
)

// disassemblyLength is how many instructions from PC a state captures.
const disassemblyLength = 6

// CPUState contains the CPU registers for debug displays.
type CPUState struct {
	ER           [8]uint32
	PC           uint32
	CCR          uint8
	Sleeping     bool
	Instructions uint64
	Cycles       uint64
	Last         string
	Disassembly  []DisassemblyLine
}

// Extract copies the state of c. It must run on the goroutine stepping c.
func Extract(c *cpu.CPU) *CPUState {
	s := &CPUState{
		PC:           c.GetPC(),
		CCR:          c.Flags().CCR(),
		Sleeping:     c.IsSleeping(),
		Instructions: c.GetInstructionCount(),
		Cycles:       c.GetCycles(),
		Last:         c.LastInstruction(),
		Disassembly:  Disassemble(c.Bus(), c.GetPC(), disassemblyLength),
	}
	for i := range s.ER {
		s.ER[i] = c.Registers().Long(uint8(i))
	}
	return s
}

// Lines formats the state one register per line, followed by the
// instructions at PC.
func (s *CPUState) Lines() []string {
	lines := make([]string, 0, len(s.ER)+5+len(s.Disassembly))
	for i, v := range s.ER {
		lines = append(lines, fmt.Sprintf("ER%d %08X", i, v))
	}
	lines = append(lines,
		fmt.Sprintf("PC  %04X", s.PC),
		fmt.Sprintf("CCR %08b", s.CCR),
		fmt.Sprintf("INS %d", s.Instructions),
	)
	if s.Sleeping {
		lines = append(lines, "SLEEP")
	} else {
		lines = append(lines, s.Last)
	}

	lines = append(lines, "")
	for i, l := range s.Disassembly {
		marker := "  "
		if i == 0 {
			marker = "> "
		}
		lines = append(lines, marker+l.String())
	}
	return lines
}
