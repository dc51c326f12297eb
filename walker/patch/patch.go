package patch

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-pokewalker/walker/cpu"
)

// firmware variables
const (
	wattsAddress uint16 = 0xF78E
	portBAddress uint16 = 0xFFDE

	defaultWatts uint16 = 1000
)

// r0l selects R0L in the byte register encoding.
const r0l uint8 = 0x8

// Patch short-circuits a firmware routine the emulator does not model.
type Patch struct {
	Name    string
	Address uint32
	Apply   cpu.Interceptor
}

var (
	// AddWatts tops up an empty watt balance so the shop and games are
	// usable without walking.
	AddWatts = Patch{
		Name:    "add watts",
		Address: 0x9A4E,
		Apply: func(c *cpu.CPU) cpu.Action {
			if c.Bus().ReadShort(wattsAddress) == 0 {
				c.Bus().WriteShort(wattsAddress, defaultWatts)
			}
			return cpu.Continue
		},
	}

	// CleanupInput clears stuck button bits before the input routine reads
	// them.
	CleanupInput = Patch{
		Name:    "cleanup input",
		Address: 0x9C3E,
		Apply: func(c *cpu.CPU) cpu.Action {
			if c.Bus().ReadByte(portBAddress) != 0 {
				c.Bus().WriteByte(portBAddress, 0)
			}
			return cpu.Continue
		},
	}

	// FactoryTests skips the factory self test loop.
	FactoryTests = Patch{
		Name:    "factory tests",
		Address: 0x0336,
		Apply:   skip(4),
	}

	// AccelerometerSleep skips the wait for the accelerometer to power down.
	AccelerometerSleep = Patch{
		Name:    "accelerometer sleep",
		Address: 0x7700,
		Apply:   skip(2),
	}

	// IRBusyWait skips the spin on the infrared transmitter.
	IRBusyWait = Patch{
		Name:    "ir busy wait",
		Address: 0x08EE,
		Apply:   skip(2),
	}

	// BatteryCheck skips the battery voltage check and reports it as good.
	BatteryCheck = Patch{
		Name:    "battery check",
		Address: 0x0350,
		Apply: func(c *cpu.CPU) cpu.Action {
			c.SetPC(c.GetPC() + 4)
			c.Registers().SetByte(r0l, 0)
			return cpu.SkipInstruction
		},
	}
)

func skip(length uint32) cpu.Interceptor {
	return func(c *cpu.CPU) cpu.Action {
		c.SetPC(c.GetPC() + length)
		return cpu.SkipInstruction
	}
}

// Defaults returns the patches installed unless disabled on the command
// line. CleanupInput is not part of them.
func Defaults() []Patch {
	return []Patch{AddWatts, FactoryTests, AccelerometerSleep, IRBusyWait, BatteryCheck}
}

// Install registers patches on c. A later patch on the same address
// replaces an earlier one.
func Install(c *cpu.CPU, patches ...Patch) {
	for _, p := range patches {
		c.OnAddress(p.Address, p.Apply)
		slog.Debug("Patch installed", "name", p.Name, "address", fmt.Sprintf("0x%04X", p.Address))
	}
}

// ByName looks up a patch among Defaults and CleanupInput.
func ByName(name string) (Patch, bool) {
	for _, p := range append(Defaults(), CleanupInput) {
		if p.Name == name {
			return p, true
		}
	}
	return Patch{}, false
}
