// disasm reads a raw 6502 binary and disassembles it to stdout.
//
// Unlike the teacher's disassembler, which inspects the filename for a
// ".prg" suffix and understands C64 BASIC listings, this is a plain
// flat binary loader: it expects raw, already-assembled machine code
// such as the snake program built into cmd/snake.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/mkern/go6502snake/cpu"
	"github.com/mkern/go6502snake/memory"
)

var (
	startPC = flag.Int("start_pc", 0x0600, "PC value to start disassembling")
	offset  = flag.Int("offset", 0x0600, "Offset into RAM to load the binary at")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [-start_pc <PC>] [-offset <offset>] <filename>", os.Args[0])
	}
	fn := flag.Args()[0]

	b, err := ioutil.ReadFile(fn)
	if err != nil {
		log.Fatalf("can't open %s: %v", fn, err)
	}

	mem := memory.New()
	addr := uint16(*offset)
	max := memory.Size - int(addr)
	if l := len(b); l > max {
		log.Printf("%d bytes at offset 0x%04X too long for the address space, truncating", l, addr)
		b = b[:max]
	}
	mem.Load(addr, b)

	fmt.Printf("0x%X bytes loaded at 0x%04X\n", len(b), addr)

	pc := uint16(*startPC)
	cnt := 0
	for cnt < len(b) {
		line, n := disassembleOne(mem, pc)
		fmt.Println(line)
		pc += uint16(n)
		cnt += n
	}
}

// disassembleOne formats the single instruction at pc as
// "ADDR OP MNEM operand" and returns how many bytes (including the
// opcode byte) it occupies.
func disassembleOne(mem *memory.Bus, pc uint16) (string, int) {
	op := mem.Read8(pc)
	name, mode, ok := cpu.OpcodeInfo(op)
	if !ok {
		return fmt.Sprintf("%04X %02X       UNIMPLEMENTED", pc, op), 1
	}

	width := mode.Width()
	var operand string
	switch mode {
	case cpu.Implied, cpu.Accumulator:
		operand = ""
	case cpu.Immediate:
		operand = fmt.Sprintf("#$%02X", mem.Read8(pc+1))
	case cpu.ZeroPage:
		operand = fmt.Sprintf("$%02X", mem.Read8(pc+1))
	case cpu.ZeroPageX:
		operand = fmt.Sprintf("$%02X,X", mem.Read8(pc+1))
	case cpu.ZeroPageY:
		operand = fmt.Sprintf("$%02X,Y", mem.Read8(pc+1))
	case cpu.IndirectX:
		operand = fmt.Sprintf("($%02X,X)", mem.Read8(pc+1))
	case cpu.IndirectY:
		operand = fmt.Sprintf("($%02X),Y", mem.Read8(pc+1))
	case cpu.Absolute:
		operand = fmt.Sprintf("$%04X", mem.Read16(pc+1))
	case cpu.AbsoluteX:
		operand = fmt.Sprintf("$%04X,X", mem.Read16(pc+1))
	case cpu.AbsoluteY:
		operand = fmt.Sprintf("$%04X,Y", mem.Read16(pc+1))
	case cpu.Indirect:
		operand = fmt.Sprintf("($%04X)", mem.Read16(pc+1))
	case cpu.Relative:
		rel := int16(int8(mem.Read8(pc + 1)))
		operand = fmt.Sprintf("$%02X (%04X)", mem.Read8(pc+1), pc+2+uint16(rel))
	}

	opBytes := fmt.Sprintf("%02X", op)
	for i := 1; i <= width; i++ {
		opBytes += fmt.Sprintf(" %02X", mem.Read8(pc+uint16(i)))
	}
	return fmt.Sprintf("%04X  %-8s %s %s", pc, opBytes, name, operand), width + 1
}
