// Package memory defines the 6502 memory bus: a single flat 64KiB
// address space with 8-bit and little-endian 16-bit accessors.
//
// Unlike a multi-chip system (where several address ranges are banked
// together behind a parent/child Bank chain so higher level code can
// walk up to the outermost controller) this emulator has exactly one
// RAM image and the CPU is its sole owner. There is no aliasing, no
// parent lookup, and no bus-error path to model, so that machinery is
// dropped in favor of a plain accessor type.
package memory

// Size is the width of the 6502 address space.
const Size = 1 << 16

// Bus is a byte-addressable 64KiB memory image.
type Bus struct {
	ram [Size]uint8
}

// New returns a zeroed Bus ready for use.
func New() *Bus {
	return &Bus{}
}

// PowerOn zeros the entire address space.
func (b *Bus) PowerOn() {
	for i := range b.ram {
		b.ram[i] = 0x00
	}
}

// Read8 returns the byte stored at addr.
func (b *Bus) Read8(addr uint16) uint8 {
	return b.ram[addr]
}

// Write8 stores val at addr.
func (b *Bus) Write8(addr uint16, val uint8) {
	b.ram[addr] = val
}

// Read16 returns the little-endian 16-bit value at addr..addr+1. The
// high byte address wraps modulo 2^16, as all 6502 address arithmetic
// does.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 stores val at addr..addr+1 in little-endian order.
func (b *Bus) Write16(addr uint16, val uint16) {
	b.Write8(addr, uint8(val&0xFF))
	b.Write8(addr+1, uint8(val>>8))
}

// Load copies program into the bus starting at addr. Used by callers
// that need to place a binary somewhere other than the standard 0x0600
// load address, such as the disassembler.
func (b *Bus) Load(addr uint16, program []uint8) {
	for i, v := range program {
		b.Write8(addr+uint16(i), v)
	}
}
