// Package cpu implements a MOS 6502 interpreter: registers, flags,
// the stack, all eleven addressing modes, and the 151 documented
// opcodes. It does not attempt cycle accuracy, interrupt scheduling,
// or decimal-mode arithmetic — see the design notes in the project's
// SPEC_FULL.md for the rationale.
package cpu

import (
	"fmt"

	"github.com/mkern/go6502snake/memory"
)

// Processor status flag bits.
const (
	C = uint8(0x01) // carry
	Z = uint8(0x02) // zero
	I = uint8(0x04) // interrupt-disable
	D = uint8(0x08) // decimal (writable, not acted upon)
	B = uint8(0x10) // break (only ever present in a pushed copy)
	U = uint8(0x20) // unused, always set in a pushed copy
	V = uint8(0x40) // overflow
	N = uint8(0x80) // negative
)

// LoadAddr is where the standard harness places a loaded program.
const LoadAddr = uint16(0x0600)

// ResetVector is the address holding the 16-bit reset entry point.
const ResetVector = uint16(0xFFFC)

// CPU holds the full architectural state of one 6502: registers,
// flags, and the memory bus it executes against. It is a
// self-contained record — callers create as many as they like, there
// is no global/singleton state.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16
	P  uint8

	Mem *memory.Bus

	halted bool
}

// New returns a CPU wired to the given bus, in its power-on state.
func New(mem *memory.Bus) *CPU {
	c := &CPU{Mem: mem}
	c.PowerOn()
	return c
}

// PowerOn resets registers to the documented power-on state: A/X/Y
// zero, SP at 0xFD, P with only U and I set, and PC undefined until a
// program is loaded and Reset is called.
func (c *CPU) PowerOn() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = U | I
	c.halted = false
}

// Load copies program into memory starting at LoadAddr and points the
// reset vector at it. It does not itself reset the CPU; call Reset
// afterward to pick up the new PC.
func (c *CPU) Load(program []uint8) {
	c.Mem.Load(LoadAddr, program)
	c.Mem.Write16(ResetVector, LoadAddr)
}

// Reset re-zeros A/X/Y, restores SP and P to their power-on values, and
// loads PC from the reset vector.
func (c *CPU) Reset() {
	c.PowerOn()
	c.PC = c.Mem.Read16(ResetVector)
}

// Halted reports whether a BRK (or a fatal decode error) has stopped
// the CPU.
func (c *CPU) Halted() bool {
	return c.halted
}

// DecodeError is returned when Step encounters an opcode with no entry
// in the dispatch table.
type DecodeError struct {
	Opcode uint8
	PC     uint16
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("unrecognized opcode 0x%02X at PC 0x%04X", e.Opcode, e.PC)
}

// ImpliedAddressingError is an internal-consistency error: a handler
// asked to resolve an operand address for an implied or accumulator
// form, which carries none.
type ImpliedAddressingError struct {
	Mode AddressingMode
}

func (e ImpliedAddressingError) Error() string {
	return fmt.Sprintf("cannot resolve an operand address for addressing mode %v", e.Mode)
}

// setZN updates the Z and N flags from result, the documented
// behavior for loads, transfers, arithmetic, logical ops, and
// accumulator/memory shifts.
func (c *CPU) setZN(result uint8) {
	c.P &^= Z | N
	if result == 0 {
		c.P |= Z
	}
	if result&N != 0 {
		c.P |= N
	}
}

func (c *CPU) setFlag(flag uint8, on bool) {
	if on {
		c.P |= flag
	} else {
		c.P &^= flag
	}
}

func (c *CPU) flag(flag uint8) bool {
	return c.P&flag != 0
}

// push8 writes val to the stack page and decrements SP, wrapping mod
// 256.
func (c *CPU) push8(val uint8) {
	c.Mem.Write8(0x0100+uint16(c.SP), val)
	c.SP--
}

// pop8 increments SP (wrapping mod 256) and returns the byte at the
// new stack location.
func (c *CPU) pop8() uint8 {
	c.SP++
	return c.Mem.Read8(0x0100 + uint16(c.SP))
}

// push16 pushes val high-byte-first so that pop16 (low then high)
// round-trips it correctly.
func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xFF))
}

// pop16 reads the low byte at the lower stack address, then the high
// byte.
func (c *CPU) pop16() uint16 {
	lo := c.pop8()
	hi := c.pop8()
	return uint16(hi)<<8 | uint16(lo)
}
