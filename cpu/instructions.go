package cpu

// Each instruction handler has the signature func(*CPU, AddressingMode) error.
// Handlers that only ever run in one mode (branches, JSR, RTS, RTI, BRK,
// flag sets/clears, register transfers) ignore the mode argument.

// --- load / store ---

func (c *CPU) iLDA(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.A = c.Mem.Read8(addr)
	c.setZN(c.A)
	return nil
}

func (c *CPU) iLDX(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.X = c.Mem.Read8(addr)
	c.setZN(c.X)
	return nil
}

func (c *CPU) iLDY(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.Y = c.Mem.Read8(addr)
	c.setZN(c.Y)
	return nil
}

func (c *CPU) iSTA(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.Mem.Write8(addr, c.A)
	return nil
}

func (c *CPU) iSTX(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.Mem.Write8(addr, c.X)
	return nil
}

func (c *CPU) iSTY(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.Mem.Write8(addr, c.Y)
	return nil
}

// --- register transfers ---

func (c *CPU) iTAX(AddressingMode) error { c.X = c.A; c.setZN(c.X); return nil }
func (c *CPU) iTAY(AddressingMode) error { c.Y = c.A; c.setZN(c.Y); return nil }
func (c *CPU) iTXA(AddressingMode) error { c.A = c.X; c.setZN(c.A); return nil }
func (c *CPU) iTYA(AddressingMode) error { c.A = c.Y; c.setZN(c.A); return nil }
func (c *CPU) iTSX(AddressingMode) error { c.X = c.SP; c.setZN(c.X); return nil }
func (c *CPU) iTXS(AddressingMode) error { c.SP = c.X; return nil }

// --- stack ---

func (c *CPU) iPHA(AddressingMode) error { c.push8(c.A); return nil }

func (c *CPU) iPLA(AddressingMode) error {
	c.A = c.pop8()
	c.setZN(c.A)
	return nil
}

// iPHP pushes P with B and U forced set in the pushed copy; P itself
// is never mutated by this.
func (c *CPU) iPHP(AddressingMode) error {
	c.push8(c.P | B | U)
	return nil
}

// iPLP pops into P, then clears B and sets U — those two bits only
// ever exist in a pushed copy, never in live P.
func (c *CPU) iPLP(AddressingMode) error {
	c.P = c.pop8()
	c.P &^= B
	c.P |= U
	return nil
}

// --- logical ---

func (c *CPU) iAND(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.A &= c.Mem.Read8(addr)
	c.setZN(c.A)
	return nil
}

func (c *CPU) iORA(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.A |= c.Mem.Read8(addr)
	c.setZN(c.A)
	return nil
}

func (c *CPU) iEOR(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.A ^= c.Mem.Read8(addr)
	c.setZN(c.A)
	return nil
}

// --- arithmetic ---

// addWithCarry implements the shared ADC/SBC datapath: s = A + m + C,
// with V set from the signed-overflow rule and C from the unsigned
// carry out.
func (c *CPU) addWithCarry(m uint8) {
	carry := uint16(0)
	if c.flag(C) {
		carry = 1
	}
	a := c.A
	sum := uint16(a) + uint16(m) + carry
	result := uint8(sum)
	c.setFlag(V, (m^result)&(a^result)&0x80 != 0)
	c.setFlag(C, sum > 0xFF)
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) iADC(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.addWithCarry(c.Mem.Read8(addr))
	return nil
}

// iSBC is ADC with the operand one's-complemented, per spec.
func (c *CPU) iSBC(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.addWithCarry(^c.Mem.Read8(addr))
	return nil
}

// --- shifts / rotates ---

func (c *CPU) iASLAcc(AddressingMode) error {
	c.setFlag(C, c.A&N != 0)
	c.A <<= 1
	c.setZN(c.A)
	return nil
}

func (c *CPU) iASL(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	v := c.Mem.Read8(addr)
	c.setFlag(C, v&N != 0)
	v <<= 1
	c.Mem.Write8(addr, v)
	c.setZN(v)
	return nil
}

func (c *CPU) iLSRAcc(AddressingMode) error {
	c.setFlag(C, c.A&C != 0)
	c.A >>= 1
	c.setZN(c.A)
	return nil
}

func (c *CPU) iLSR(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	v := c.Mem.Read8(addr)
	c.setFlag(C, v&C != 0)
	v >>= 1
	c.Mem.Write8(addr, v)
	c.setZN(v)
	return nil
}

func (c *CPU) iROLAcc(AddressingMode) error {
	oldC := uint8(0)
	if c.flag(C) {
		oldC = 1
	}
	c.setFlag(C, c.A&N != 0)
	c.A = (c.A << 1) | oldC
	c.setZN(c.A)
	return nil
}

// iROL updates Z and N on the stored result, resolving the ambiguity
// the spec calls out for the memory form in favor of the ISA-correct
// behavior.
func (c *CPU) iROL(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	oldC := uint8(0)
	if c.flag(C) {
		oldC = 1
	}
	v := c.Mem.Read8(addr)
	c.setFlag(C, v&N != 0)
	v = (v << 1) | oldC
	c.Mem.Write8(addr, v)
	c.setZN(v)
	return nil
}

func (c *CPU) iRORAcc(AddressingMode) error {
	oldC := uint8(0)
	if c.flag(C) {
		oldC = 0x80
	}
	c.setFlag(C, c.A&C != 0)
	c.A = (c.A >> 1) | oldC
	c.setZN(c.A)
	return nil
}

// iROR updates Z and N on the stored result; see iROL.
func (c *CPU) iROR(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	oldC := uint8(0)
	if c.flag(C) {
		oldC = 0x80
	}
	v := c.Mem.Read8(addr)
	c.setFlag(C, v&C != 0)
	v = (v >> 1) | oldC
	c.Mem.Write8(addr, v)
	c.setZN(v)
	return nil
}

// --- compare ---

func (c *CPU) compare(reg uint8, m uint8) {
	c.setFlag(C, m <= reg)
	c.setZN(reg - m)
}

func (c *CPU) iCMP(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.compare(c.A, c.Mem.Read8(addr))
	return nil
}

func (c *CPU) iCPX(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.compare(c.X, c.Mem.Read8(addr))
	return nil
}

func (c *CPU) iCPY(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	c.compare(c.Y, c.Mem.Read8(addr))
	return nil
}

// --- increment / decrement ---

func (c *CPU) iINC(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	v := c.Mem.Read8(addr) + 1
	c.Mem.Write8(addr, v)
	c.setZN(v)
	return nil
}

func (c *CPU) iDEC(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	v := c.Mem.Read8(addr) - 1
	c.Mem.Write8(addr, v)
	c.setZN(v)
	return nil
}

func (c *CPU) iINX(AddressingMode) error { c.X++; c.setZN(c.X); return nil }
func (c *CPU) iINY(AddressingMode) error { c.Y++; c.setZN(c.Y); return nil }
func (c *CPU) iDEX(AddressingMode) error { c.X--; c.setZN(c.X); return nil }
func (c *CPU) iDEY(AddressingMode) error { c.Y--; c.setZN(c.Y); return nil }

// --- bit test ---

func (c *CPU) iBIT(mode AddressingMode) error {
	addr, err := c.resolveAddress(mode)
	if err != nil {
		return err
	}
	m := c.Mem.Read8(addr)
	c.setFlag(Z, c.A&m == 0)
	c.setFlag(V, m&0x40 != 0)
	c.setFlag(N, m&0x80 != 0)
	return nil
}

// --- branches ---
//
// Branches ignore the opcode table's addressing mode/operand-byte
// bookkeeping entirely: they read their own one-byte offset and
// manage PC themselves, taken or not, so the table records 0 operand
// bytes for them (see addressing.go).

func (c *CPU) branch(taken bool) error {
	offset := c.Mem.Read8(c.PC)
	c.PC++
	if taken {
		c.PC += uint16(int16(int8(offset)))
	}
	return nil
}

func (c *CPU) iBCC(AddressingMode) error { return c.branch(!c.flag(C)) }
func (c *CPU) iBCS(AddressingMode) error { return c.branch(c.flag(C)) }
func (c *CPU) iBEQ(AddressingMode) error { return c.branch(c.flag(Z)) }
func (c *CPU) iBNE(AddressingMode) error { return c.branch(!c.flag(Z)) }
func (c *CPU) iBMI(AddressingMode) error { return c.branch(c.flag(N)) }
func (c *CPU) iBPL(AddressingMode) error { return c.branch(!c.flag(N)) }
func (c *CPU) iBVC(AddressingMode) error { return c.branch(!c.flag(V)) }
func (c *CPU) iBVS(AddressingMode) error { return c.branch(c.flag(V)) }

// --- jumps / subroutines ---
//
// Like branches, these manage PC entirely themselves and are recorded
// with 0 operand bytes in the opcode table.

func (c *CPU) iJMP(AddressingMode) error {
	c.PC = c.Mem.Read16(c.PC)
	return nil
}

// iJMPIndirect implements the indirect JMP page-wrap bug verbatim:
// when the pointer's low byte is 0xFF, the high byte is fetched from
// the start of the same page instead of the next one.
func (c *CPU) iJMPIndirect(AddressingMode) error {
	ptr := c.Mem.Read16(c.PC)
	var lo, hi uint8
	if ptr&0x00FF == 0x00FF {
		lo = c.Mem.Read8(ptr)
		hi = c.Mem.Read8(ptr & 0xFF00)
	} else {
		lo = c.Mem.Read8(ptr)
		hi = c.Mem.Read8(ptr + 1)
	}
	c.PC = uint16(hi)<<8 | uint16(lo)
	return nil
}

func (c *CPU) iJSR(AddressingMode) error {
	target := c.Mem.Read16(c.PC)
	c.push16(c.PC + 1)
	c.PC = target
	return nil
}

func (c *CPU) iRTS(AddressingMode) error {
	c.PC = c.pop16() + 1
	return nil
}

func (c *CPU) iRTI(AddressingMode) error {
	c.P = c.pop8()
	c.P &^= B
	c.P |= U
	c.PC = c.pop16()
	return nil
}

// --- flag manipulation ---

func (c *CPU) iCLC(AddressingMode) error { c.setFlag(C, false); return nil }
func (c *CPU) iSEC(AddressingMode) error { c.setFlag(C, true); return nil }
func (c *CPU) iCLD(AddressingMode) error { c.setFlag(D, false); return nil }
func (c *CPU) iSED(AddressingMode) error { c.setFlag(D, true); return nil }
func (c *CPU) iCLI(AddressingMode) error { c.setFlag(I, false); return nil }
func (c *CPU) iSEI(AddressingMode) error { c.setFlag(I, true); return nil }
func (c *CPU) iCLV(AddressingMode) error { c.setFlag(V, false); return nil }

// --- misc ---

func (c *CPU) iNOP(AddressingMode) error { return nil }

// iBRK does not dispatch through an interrupt vector — this emulator
// simplifies BRK to "stop the run loop". Step detects opcode 0x00 and
// reports the halt, so Run returns before invoking the host callback
// and this handler has nothing to do.
func (c *CPU) iBRK(AddressingMode) error { return nil }
