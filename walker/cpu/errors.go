package cpu

import "fmt"

// DecodeError is returned when no table entry matches the bytes at PC.
type DecodeError struct {
	PC    uint32
	Bytes [8]byte
	Table string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cpu: no instruction for % X at pc 0x%06X (table %s)", e.Bytes, e.PC, e.Table)
}

// UnimplementedError is returned when PC reaches an encoding the emulator
// knows about but does not execute.
type UnimplementedError struct {
	Name string
	PC   uint32
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("cpu: unimplemented instruction %s at pc 0x%06X", e.Name, e.PC)
}
