// Package script lets Lua code patch firmware routines. A script calls
// on_address(addr, fn) to run fn whenever the CPU reaches addr; fn returns
// true to skip the instruction there.
//
// Globals available to scripts:
//
//	on_address(addr, fn)
//	read8(addr) read16(addr) read32(addr)
//	write8(addr, v) write16(addr, v) write32(addr, v)
//	pc() set_pc(v)
//	reg8(sel) set_reg8(sel, v) reg16(sel) set_reg16(sel, v) reg32(n) set_reg32(n, v)
//	log(msg)
package script

import (
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/valerio/go-pokewalker/walker/cpu"
)

// Engine owns a Lua state bound to one CPU. Hooks run on the emulation
// goroutine, so an Engine must not be shared.
type Engine struct {
	L     *lua.LState
	cpu   *cpu.CPU
	hooks map[uint32]*lua.LFunction
}

// New creates an Engine with the walker API registered as Lua globals.
func New(c *cpu.CPU) *Engine {
	e := &Engine{
		L:     lua.NewState(),
		cpu:   c,
		hooks: make(map[uint32]*lua.LFunction),
	}
	e.register()
	return e
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.L.Close()
}

// RunFile executes a script file, installing the hooks it registers.
func (e *Engine) RunFile(path string) error {
	if err := e.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// RunString executes src, installing the hooks it registers.
func (e *Engine) RunString(src string) error {
	if err := e.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// Hooks returns the addresses with a Lua hook.
func (e *Engine) Hooks() []uint32 {
	addresses := make([]uint32, 0, len(e.hooks))
	for address := range e.hooks {
		addresses = append(addresses, address)
	}
	return addresses
}

func (e *Engine) register() {
	bus := e.cpu.Bus()
	regs := e.cpu.Registers()

	funcs := map[string]lua.LGFunction{
		"on_address": e.onAddress,

		"read8": func(L *lua.LState) int {
			L.Push(lua.LNumber(bus.ReadByte(address(L, 1))))
			return 1
		},
		"read16": func(L *lua.LState) int {
			L.Push(lua.LNumber(bus.ReadShort(address(L, 1))))
			return 1
		},
		"read32": func(L *lua.LState) int {
			L.Push(lua.LNumber(bus.ReadInt(address(L, 1))))
			return 1
		},
		"write8": func(L *lua.LState) int {
			bus.WriteByte(address(L, 1), uint8(L.CheckInt(2)))
			return 0
		},
		"write16": func(L *lua.LState) int {
			bus.WriteShort(address(L, 1), uint16(L.CheckInt(2)))
			return 0
		},
		"write32": func(L *lua.LState) int {
			bus.WriteInt(address(L, 1), uint32(L.CheckInt64(2)))
			return 0
		},

		"pc": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.cpu.GetPC()))
			return 1
		},
		"set_pc": func(L *lua.LState) int {
			e.cpu.SetPC(uint32(L.CheckInt64(1)))
			return 0
		},

		"reg8": func(L *lua.LState) int {
			L.Push(lua.LNumber(regs.Byte(selector(L, 1))))
			return 1
		},
		"set_reg8": func(L *lua.LState) int {
			regs.SetByte(selector(L, 1), uint8(L.CheckInt(2)))
			return 0
		},
		"reg16": func(L *lua.LState) int {
			L.Push(lua.LNumber(regs.Word(selector(L, 1))))
			return 1
		},
		"set_reg16": func(L *lua.LState) int {
			regs.SetWord(selector(L, 1), uint16(L.CheckInt(2)))
			return 0
		},
		"reg32": func(L *lua.LState) int {
			L.Push(lua.LNumber(regs.Long(selector(L, 1) & 7)))
			return 1
		},
		"set_reg32": func(L *lua.LState) int {
			regs.SetLong(selector(L, 1)&7, uint32(L.CheckInt64(2)))
			return 0
		},

		"log": func(L *lua.LState) int {
			slog.Info("script", "msg", L.CheckString(1))
			return 0
		},
	}

	for name, fn := range funcs {
		e.L.SetGlobal(name, e.L.NewFunction(fn))
	}
}

func (e *Engine) onAddress(L *lua.LState) int {
	addr := uint32(L.CheckInt64(1)) & 0xFFFF
	fn := L.CheckFunction(2)

	e.hooks[addr] = fn
	e.cpu.OnAddress(addr, e.interceptor(addr, fn))
	slog.Debug("Script hook installed", "address", fmt.Sprintf("0x%04X", addr))
	return 0
}

func (e *Engine) interceptor(addr uint32, fn *lua.LFunction) cpu.Interceptor {
	return func(*cpu.CPU) cpu.Action {
		err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true})
		if err != nil {
			slog.Warn("Script hook failed", "address", fmt.Sprintf("0x%04X", addr), "error", err)
			return cpu.Continue
		}

		ret := e.L.Get(-1)
		e.L.Pop(1)
		if lua.LVAsBool(ret) {
			return cpu.SkipInstruction
		}
		return cpu.Continue
	}
}

func address(L *lua.LState, n int) uint16 {
	return uint16(L.CheckInt64(n))
}

func selector(L *lua.LState, n int) uint8 {
	sel := L.CheckInt(n)
	if sel < 0 || sel > 15 {
		L.ArgError(n, "register selector out of range")
	}
	return uint8(sel)
}
