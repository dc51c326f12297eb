package memory

import (
	"fmt"
	"log/slog"
)

// Size is the number of addressable bytes, every address wraps around it.
const Size = 0x10000

// ReadHook observes a read at a hooked address. It receives the value that
// was fetched (composed big-endian for 16 and 32 bit reads) and cannot change it.
type ReadHook func(value uint32)

// WriteHook observes a write at a hooked address after it has been stored.
type WriteHook func(value uint32)

// Memory is a flat 64KiB address space with per-address side effect hooks,
// used to model memory mapped hardware registers.
type Memory struct {
	name       string
	data       [Size]byte
	readHooks  map[uint16]ReadHook
	writeHooks map[uint16]WriteHook
	readOnly   map[uint16]struct{}
}

// New creates an empty memory. The name is only used for logging.
func New(name string) *Memory {
	return &Memory{
		name:       name,
		readHooks:  make(map[uint16]ReadHook),
		writeHooks: make(map[uint16]WriteHook),
		readOnly:   make(map[uint16]struct{}),
	}
}

// NewWithData creates a memory with image copied at address 0.
func NewWithData(name string, image []byte) *Memory {
	m := New(name)
	m.Load(image)
	return m
}

// Load copies image at address 0, anything past the end of memory is ignored.
func (m *Memory) Load(image []byte) {
	if len(image) > Size {
		slog.Warn("Image larger than address space, truncating", "memory", m.name, "size", len(image))
	}
	copy(m.data[:], image)
}

// Data returns the backing buffer. Writes to it bypass hooks and read-only marks.
func (m *Memory) Data() []byte {
	return m.data[:]
}

// Name returns the memory name.
func (m *Memory) Name() string {
	return m.name
}

// OnRead registers hook for reads at address, replacing any previous one.
func (m *Memory) OnRead(address uint16, hook ReadHook) {
	m.readHooks[address] = hook
}

// OnWrite registers hook for writes at address, replacing any previous one.
func (m *Memory) OnWrite(address uint16, hook WriteHook) {
	m.writeHooks[address] = hook
}

// AddReadOnlyAddress marks address so that normal writes to it are dropped.
func (m *Memory) AddReadOnlyAddress(address uint16) {
	m.readOnly[address] = struct{}{}
}

// IsReadOnly reports whether normal writes to address are dropped.
func (m *Memory) IsReadOnly(address uint16) bool {
	_, ok := m.readOnly[address]
	return ok
}

// PeekByte reads a byte without firing hooks.
func (m *Memory) PeekByte(address uint16) uint8 {
	return m.data[address]
}

// PeekShort reads a big-endian 16 bit value without firing hooks.
func (m *Memory) PeekShort(address uint16) uint16 {
	return uint16(m.data[address])<<8 | uint16(m.data[address+1])
}

// PeekInt reads a big-endian 32 bit value without firing hooks.
func (m *Memory) PeekInt(address uint16) uint32 {
	return uint32(m.data[address])<<24 |
		uint32(m.data[address+1])<<16 |
		uint32(m.data[address+2])<<8 |
		uint32(m.data[address+3])
}

func (m *Memory) ReadByte(address uint16) uint8 {
	value := m.PeekByte(address)
	m.fireRead(address, uint32(value))
	return value
}

func (m *Memory) ReadShort(address uint16) uint16 {
	value := m.PeekShort(address)
	m.fireRead(address, uint32(value))
	return value
}

func (m *Memory) ReadInt(address uint16) uint32 {
	value := m.PeekInt(address)
	m.fireRead(address, value)
	return value
}

func (m *Memory) WriteByte(address uint16, value uint8) {
	if m.rejects(address) {
		return
	}
	m.HardwareWriteByte(address, value)
	m.fireWrite(address, uint32(value))
}

func (m *Memory) WriteShort(address uint16, value uint16) {
	if m.rejects(address) {
		return
	}
	m.HardwareWriteShort(address, value)
	m.fireWrite(address, uint32(value))
}

func (m *Memory) WriteInt(address uint16, value uint32) {
	if m.rejects(address) {
		return
	}
	m.HardwareWriteInt(address, value)
	m.fireWrite(address, value)
}

// HardwareWriteByte stores a byte on behalf of a device: read-only marks
// are ignored and no hook fires.
func (m *Memory) HardwareWriteByte(address uint16, value uint8) {
	m.data[address] = value
}

func (m *Memory) HardwareWriteShort(address uint16, value uint16) {
	m.data[address] = uint8(value >> 8)
	m.data[address+1] = uint8(value)
}

func (m *Memory) HardwareWriteInt(address uint16, value uint32) {
	m.data[address] = uint8(value >> 24)
	m.data[address+1] = uint8(value >> 16)
	m.data[address+2] = uint8(value >> 8)
	m.data[address+3] = uint8(value)
}

// SetBits ORs mask into the byte at address as a hardware write.
func (m *Memory) SetBits(address uint16, mask uint8) {
	m.data[address] |= mask
}

// ClearBits clears mask from the byte at address as a hardware write.
func (m *Memory) ClearBits(address uint16, mask uint8) {
	m.data[address] &^= mask
}

// ReadString reads length bytes starting at address without firing hooks.
func (m *Memory) ReadString(address uint16, length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = m.data[address+uint16(i)]
	}
	return string(buf)
}

func (m *Memory) rejects(address uint16) bool {
	if _, ok := m.readOnly[address]; ok {
		slog.Debug("Dropped write to read-only address", "memory", m.name, "addr", fmt.Sprintf("0x%04X", address))
		return true
	}
	return false
}

func (m *Memory) fireRead(address uint16, value uint32) {
	if hook, ok := m.readHooks[address]; ok {
		hook(value)
	}
}

func (m *Memory) fireWrite(address uint16, value uint32) {
	if hook, ok := m.writeHooks[address]; ok {
		hook(value)
	}
}
