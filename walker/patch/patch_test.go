package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pokewalker/walker/cpu"
	"github.com/valerio/go-pokewalker/walker/memory"
)

// newPatchedCPU boots at address with p installed. The program bytes at
// address are an undecodable encoding, so a patch that does not skip fails
// the step.
func newPatchedCPU(t *testing.T, p Patch) (*cpu.CPU, *memory.Memory) {
	t.Helper()
	mem := memory.New("ram")
	mem.WriteShort(cpu.VectorReset, uint16(p.Address))
	c := cpu.New(mem)
	Install(c, p)
	return c, mem
}

func TestSkippingPatches(t *testing.T) {
	tests := []struct {
		patch  Patch
		length uint32
	}{
		{FactoryTests, 4},
		{AccelerometerSleep, 2},
		{IRBusyWait, 2},
		{BatteryCheck, 4},
	}

	for _, tt := range tests {
		t.Run(tt.patch.Name, func(t *testing.T) {
			c, mem := newPatchedCPU(t, tt.patch)
			mem.WriteShort(uint16(tt.patch.Address), 0x0F00)

			cycles, err := c.Step()
			require.NoError(t, err)
			assert.Equal(t, 1, cycles)
			assert.Equal(t, tt.patch.Address+tt.length, c.GetPC())
			assert.Zero(t, c.GetInstructionCount())
		})
	}
}

func TestBatteryCheckClearsR0L(t *testing.T) {
	c, _ := newPatchedCPU(t, BatteryCheck)
	c.Registers().SetWord(0, 0x12AA)

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1200), c.Registers().Word(0))
}

func TestAddWatts(t *testing.T) {
	tests := []struct {
		name     string
		watts    uint16
		expected uint16
	}{
		{"empty balance is topped up", 0, defaultWatts},
		{"existing balance is kept", 42, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mem := newPatchedCPU(t, AddWatts)
			mem.WriteShort(wattsAddress, tt.watts)

			// NOP at the patched address, the patch lets it run
			_, err := c.Step()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mem.PeekShort(wattsAddress))
			assert.Equal(t, AddWatts.Address+2, c.GetPC())
			assert.Equal(t, uint64(1), c.GetInstructionCount())
		})
	}
}

func TestCleanupInput(t *testing.T) {
	c, mem := newPatchedCPU(t, CleanupInput)
	mem.WriteByte(portBAddress, 0x14)

	_, err := c.Step()
	require.NoError(t, err)
	assert.Zero(t, mem.PeekByte(portBAddress))
}

func TestDefaults(t *testing.T) {
	names := []string{}
	for _, p := range Defaults() {
		names = append(names, p.Name)
	}
	assert.NotContains(t, names, CleanupInput.Name)
	assert.Len(t, names, 5)

	p, ok := ByName("cleanup input")
	assert.True(t, ok)
	assert.Equal(t, uint32(0x9C3E), p.Address)

	_, ok = ByName("missing")
	assert.False(t, ok)
}
