package cpu

// opcodeEntry is one row of the dense dispatch table described in the
// design notes: a data description of (handler, addressing mode,
// operand byte count) rather than a giant tagged switch, so the
// operand-advance logic is uniform across all 151 documented opcodes.
type opcodeEntry struct {
	name          string
	mode          AddressingMode
	exec          func(*CPU, AddressingMode) error
	selfAdvancing bool
}

// operandBytes is how many bytes the dispatcher should skip past the
// opcode byte after exec returns. Branches and other control-flow
// opcodes consume their own operand bytes internally and are recorded
// with zero here to avoid a double advance.
func (e opcodeEntry) operandBytes() int {
	if e.selfAdvancing {
		return 0
	}
	return e.mode.operandBytes()
}

var opcodeTable [256]opcodeEntry

func init() {
	reg := func(op uint8, name string, mode AddressingMode, exec func(*CPU, AddressingMode) error) {
		opcodeTable[op].name = name
		opcodeTable[op].mode = mode
		opcodeTable[op].exec = exec
	}
	// selfAdvancing marks branches, jumps, subroutine return/entry, and
	// BRK: all of these fully manage PC inside their handler. mode is
	// still recorded accurately (not forced to Implied) so the
	// disassembler can report the real operand width via Width().
	regCtl := func(op uint8, name string, mode AddressingMode, exec func(*CPU, AddressingMode) error) {
		reg(op, name, mode, exec)
		opcodeTable[op].selfAdvancing = true
	}

	// ADC
	reg(0x69, "ADC", Immediate, (*CPU).iADC)
	reg(0x65, "ADC", ZeroPage, (*CPU).iADC)
	reg(0x75, "ADC", ZeroPageX, (*CPU).iADC)
	reg(0x6D, "ADC", Absolute, (*CPU).iADC)
	reg(0x7D, "ADC", AbsoluteX, (*CPU).iADC)
	reg(0x79, "ADC", AbsoluteY, (*CPU).iADC)
	reg(0x61, "ADC", IndirectX, (*CPU).iADC)
	reg(0x71, "ADC", IndirectY, (*CPU).iADC)

	// AND
	reg(0x29, "AND", Immediate, (*CPU).iAND)
	reg(0x25, "AND", ZeroPage, (*CPU).iAND)
	reg(0x35, "AND", ZeroPageX, (*CPU).iAND)
	reg(0x2D, "AND", Absolute, (*CPU).iAND)
	reg(0x3D, "AND", AbsoluteX, (*CPU).iAND)
	reg(0x39, "AND", AbsoluteY, (*CPU).iAND)
	reg(0x21, "AND", IndirectX, (*CPU).iAND)
	reg(0x31, "AND", IndirectY, (*CPU).iAND)

	// ASL
	reg(0x0A, "ASL", Accumulator, (*CPU).iASLAcc)
	reg(0x06, "ASL", ZeroPage, (*CPU).iASL)
	reg(0x16, "ASL", ZeroPageX, (*CPU).iASL)
	reg(0x0E, "ASL", Absolute, (*CPU).iASL)
	reg(0x1E, "ASL", AbsoluteX, (*CPU).iASL)

	// Branches
	regCtl(0x90, "BCC", Relative, (*CPU).iBCC)
	regCtl(0xB0, "BCS", Relative, (*CPU).iBCS)
	regCtl(0xF0, "BEQ", Relative, (*CPU).iBEQ)
	regCtl(0x30, "BMI", Relative, (*CPU).iBMI)
	regCtl(0xD0, "BNE", Relative, (*CPU).iBNE)
	regCtl(0x10, "BPL", Relative, (*CPU).iBPL)
	regCtl(0x50, "BVC", Relative, (*CPU).iBVC)
	regCtl(0x70, "BVS", Relative, (*CPU).iBVS)

	// BIT
	reg(0x24, "BIT", ZeroPage, (*CPU).iBIT)
	reg(0x2C, "BIT", Absolute, (*CPU).iBIT)

	// BRK
	regCtl(0x00, "BRK", Implied, (*CPU).iBRK)

	// Flag clear/set
	reg(0x18, "CLC", Implied, (*CPU).iCLC)
	reg(0xD8, "CLD", Implied, (*CPU).iCLD)
	reg(0x58, "CLI", Implied, (*CPU).iCLI)
	reg(0xB8, "CLV", Implied, (*CPU).iCLV)
	reg(0x38, "SEC", Implied, (*CPU).iSEC)
	reg(0xF8, "SED", Implied, (*CPU).iSED)
	reg(0x78, "SEI", Implied, (*CPU).iSEI)

	// CMP
	reg(0xC9, "CMP", Immediate, (*CPU).iCMP)
	reg(0xC5, "CMP", ZeroPage, (*CPU).iCMP)
	reg(0xD5, "CMP", ZeroPageX, (*CPU).iCMP)
	reg(0xCD, "CMP", Absolute, (*CPU).iCMP)
	reg(0xDD, "CMP", AbsoluteX, (*CPU).iCMP)
	reg(0xD9, "CMP", AbsoluteY, (*CPU).iCMP)
	reg(0xC1, "CMP", IndirectX, (*CPU).iCMP)
	reg(0xD1, "CMP", IndirectY, (*CPU).iCMP)

	// CPX / CPY
	reg(0xE0, "CPX", Immediate, (*CPU).iCPX)
	reg(0xE4, "CPX", ZeroPage, (*CPU).iCPX)
	reg(0xEC, "CPX", Absolute, (*CPU).iCPX)
	reg(0xC0, "CPY", Immediate, (*CPU).iCPY)
	reg(0xC4, "CPY", ZeroPage, (*CPU).iCPY)
	reg(0xCC, "CPY", Absolute, (*CPU).iCPY)

	// DEC / INC (memory)
	reg(0xC6, "DEC", ZeroPage, (*CPU).iDEC)
	reg(0xD6, "DEC", ZeroPageX, (*CPU).iDEC)
	reg(0xCE, "DEC", Absolute, (*CPU).iDEC)
	reg(0xDE, "DEC", AbsoluteX, (*CPU).iDEC)
	reg(0xE6, "INC", ZeroPage, (*CPU).iINC)
	reg(0xF6, "INC", ZeroPageX, (*CPU).iINC)
	reg(0xEE, "INC", Absolute, (*CPU).iINC)
	reg(0xFE, "INC", AbsoluteX, (*CPU).iINC)

	// Register inc/dec
	reg(0xCA, "DEX", Implied, (*CPU).iDEX)
	reg(0x88, "DEY", Implied, (*CPU).iDEY)
	reg(0xE8, "INX", Implied, (*CPU).iINX)
	reg(0xC8, "INY", Implied, (*CPU).iINY)

	// EOR
	reg(0x49, "EOR", Immediate, (*CPU).iEOR)
	reg(0x45, "EOR", ZeroPage, (*CPU).iEOR)
	reg(0x55, "EOR", ZeroPageX, (*CPU).iEOR)
	reg(0x4D, "EOR", Absolute, (*CPU).iEOR)
	reg(0x5D, "EOR", AbsoluteX, (*CPU).iEOR)
	reg(0x59, "EOR", AbsoluteY, (*CPU).iEOR)
	reg(0x41, "EOR", IndirectX, (*CPU).iEOR)
	reg(0x51, "EOR", IndirectY, (*CPU).iEOR)

	// JMP / JSR / RTS / RTI
	regCtl(0x4C, "JMP", Absolute, (*CPU).iJMP)
	regCtl(0x6C, "JMP", Indirect, (*CPU).iJMPIndirect)
	regCtl(0x20, "JSR", Absolute, (*CPU).iJSR)
	regCtl(0x60, "RTS", Implied, (*CPU).iRTS)
	regCtl(0x40, "RTI", Implied, (*CPU).iRTI)

	// LDA / LDX / LDY
	reg(0xA9, "LDA", Immediate, (*CPU).iLDA)
	reg(0xA5, "LDA", ZeroPage, (*CPU).iLDA)
	reg(0xB5, "LDA", ZeroPageX, (*CPU).iLDA)
	reg(0xAD, "LDA", Absolute, (*CPU).iLDA)
	reg(0xBD, "LDA", AbsoluteX, (*CPU).iLDA)
	reg(0xB9, "LDA", AbsoluteY, (*CPU).iLDA)
	reg(0xA1, "LDA", IndirectX, (*CPU).iLDA)
	reg(0xB1, "LDA", IndirectY, (*CPU).iLDA)

	reg(0xA2, "LDX", Immediate, (*CPU).iLDX)
	reg(0xA6, "LDX", ZeroPage, (*CPU).iLDX)
	reg(0xB6, "LDX", ZeroPageY, (*CPU).iLDX)
	reg(0xAE, "LDX", Absolute, (*CPU).iLDX)
	reg(0xBE, "LDX", AbsoluteY, (*CPU).iLDX)

	reg(0xA0, "LDY", Immediate, (*CPU).iLDY)
	reg(0xA4, "LDY", ZeroPage, (*CPU).iLDY)
	reg(0xB4, "LDY", ZeroPageX, (*CPU).iLDY)
	reg(0xAC, "LDY", Absolute, (*CPU).iLDY)
	reg(0xBC, "LDY", AbsoluteX, (*CPU).iLDY)

	// LSR
	reg(0x4A, "LSR", Accumulator, (*CPU).iLSRAcc)
	reg(0x46, "LSR", ZeroPage, (*CPU).iLSR)
	reg(0x56, "LSR", ZeroPageX, (*CPU).iLSR)
	reg(0x4E, "LSR", Absolute, (*CPU).iLSR)
	reg(0x5E, "LSR", AbsoluteX, (*CPU).iLSR)

	// NOP
	reg(0xEA, "NOP", Implied, (*CPU).iNOP)

	// ORA
	reg(0x09, "ORA", Immediate, (*CPU).iORA)
	reg(0x05, "ORA", ZeroPage, (*CPU).iORA)
	reg(0x15, "ORA", ZeroPageX, (*CPU).iORA)
	reg(0x0D, "ORA", Absolute, (*CPU).iORA)
	reg(0x1D, "ORA", AbsoluteX, (*CPU).iORA)
	reg(0x19, "ORA", AbsoluteY, (*CPU).iORA)
	reg(0x01, "ORA", IndirectX, (*CPU).iORA)
	reg(0x11, "ORA", IndirectY, (*CPU).iORA)

	// Stack
	reg(0x48, "PHA", Implied, (*CPU).iPHA)
	reg(0x08, "PHP", Implied, (*CPU).iPHP)
	reg(0x68, "PLA", Implied, (*CPU).iPLA)
	reg(0x28, "PLP", Implied, (*CPU).iPLP)

	// ROL / ROR
	reg(0x2A, "ROL", Accumulator, (*CPU).iROLAcc)
	reg(0x26, "ROL", ZeroPage, (*CPU).iROL)
	reg(0x36, "ROL", ZeroPageX, (*CPU).iROL)
	reg(0x2E, "ROL", Absolute, (*CPU).iROL)
	reg(0x3E, "ROL", AbsoluteX, (*CPU).iROL)

	reg(0x6A, "ROR", Accumulator, (*CPU).iRORAcc)
	reg(0x66, "ROR", ZeroPage, (*CPU).iROR)
	reg(0x76, "ROR", ZeroPageX, (*CPU).iROR)
	reg(0x6E, "ROR", Absolute, (*CPU).iROR)
	reg(0x7E, "ROR", AbsoluteX, (*CPU).iROR)

	// SBC
	reg(0xE9, "SBC", Immediate, (*CPU).iSBC)
	reg(0xE5, "SBC", ZeroPage, (*CPU).iSBC)
	reg(0xF5, "SBC", ZeroPageX, (*CPU).iSBC)
	reg(0xED, "SBC", Absolute, (*CPU).iSBC)
	reg(0xFD, "SBC", AbsoluteX, (*CPU).iSBC)
	reg(0xF9, "SBC", AbsoluteY, (*CPU).iSBC)
	reg(0xE1, "SBC", IndirectX, (*CPU).iSBC)
	reg(0xF1, "SBC", IndirectY, (*CPU).iSBC)

	// STA / STX / STY
	reg(0x85, "STA", ZeroPage, (*CPU).iSTA)
	reg(0x95, "STA", ZeroPageX, (*CPU).iSTA)
	reg(0x8D, "STA", Absolute, (*CPU).iSTA)
	reg(0x9D, "STA", AbsoluteX, (*CPU).iSTA)
	reg(0x99, "STA", AbsoluteY, (*CPU).iSTA)
	reg(0x81, "STA", IndirectX, (*CPU).iSTA)
	reg(0x91, "STA", IndirectY, (*CPU).iSTA)

	reg(0x86, "STX", ZeroPage, (*CPU).iSTX)
	reg(0x96, "STX", ZeroPageY, (*CPU).iSTX)
	reg(0x8E, "STX", Absolute, (*CPU).iSTX)

	reg(0x84, "STY", ZeroPage, (*CPU).iSTY)
	reg(0x94, "STY", ZeroPageX, (*CPU).iSTY)
	reg(0x8C, "STY", Absolute, (*CPU).iSTY)

	// Register transfers
	reg(0xAA, "TAX", Implied, (*CPU).iTAX)
	reg(0xA8, "TAY", Implied, (*CPU).iTAY)
	reg(0xBA, "TSX", Implied, (*CPU).iTSX)
	reg(0x8A, "TXA", Implied, (*CPU).iTXA)
	reg(0x9A, "TXS", Implied, (*CPU).iTXS)
	reg(0x98, "TYA", Implied, (*CPU).iTYA)
}

// OpcodeInfo looks up the mnemonic and addressing mode for op. ok is
// false for the 105 unrecognized opcode values.
func OpcodeInfo(op uint8) (name string, mode AddressingMode, ok bool) {
	e := opcodeTable[op]
	return e.name, e.mode, e.exec != nil
}

// Step decodes and executes one instruction, returning true if it was
// BRK (the CPU is now halted and the host callback must not run).
func (c *CPU) Step() (bool, error) {
	op := c.Mem.Read8(c.PC)
	pcAtFetch := c.PC
	c.PC++

	entry := opcodeTable[op]
	if entry.exec == nil {
		c.halted = true
		return true, DecodeError{Opcode: op, PC: pcAtFetch}
	}
	if err := entry.exec(c, entry.mode); err != nil {
		c.halted = true
		return true, err
	}
	c.PC += uint16(entry.operandBytes())

	if op == 0x00 {
		c.halted = true
		return true, nil
	}
	return false, nil
}

// Callback is invoked after every successfully dispatched instruction
// except BRK, with a mutable reference to CPU state. It must not
// retain that reference beyond its synchronous return, and must not
// call Run or Step itself.
type Callback func(*CPU)

// Run executes instructions until BRK or a fatal error. cb, if
// non-nil, runs after each instruction other than the terminating
// BRK.
func (c *CPU) Run(cb Callback) error {
	for {
		done, err := c.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if cb != nil {
			cb(c)
		}
	}
}
