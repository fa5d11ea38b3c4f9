// Package disasm renders the decoded instruction stream produced by
// pkg/cpu's opcode table as human-readable assembly text, independent of
// execution. It never steps CPU state, only reads bytes off a bus.Bus.
package disasm

import (
	"fmt"

	"nes6502/pkg/bus"
	"nes6502/pkg/cpu"
)

// Line is one disassembled instruction: its address, raw bytes, and
// rendered text.
type Line struct {
	PC    uint16
	Bytes []uint8
	Text  string
}

// Step disassembles the instruction at pc, returning the rendered line;
// its Bytes hold the instruction's bytes (1 plus the addressing mode's
// operand width). An unofficial/illegal opcode renders as a raw ".byte"
// directive and occupies one byte, so callers can keep walking a buffer
// that contains a mix of code and data without stopping at the first
// undecodable byte.
func Step(pc uint16, b bus.Bus) Line {
	opcode := b.ReadU8(pc)
	op, ok := cpu.Decode(opcode)
	if !ok {
		return Line{PC: pc, Bytes: []uint8{opcode}, Text: fmt.Sprintf(".byte $%02X", opcode)}
	}

	width := op.Mode.OperandBytes()
	raw := make([]uint8, 0, width+1)
	raw = append(raw, opcode)
	for i := 0; i < width; i++ {
		raw = append(raw, b.ReadU8(pc+1+uint16(i)))
	}

	return Line{PC: pc, Bytes: raw, Text: fmt.Sprintf("%s %s", op.Mnemonic, operandText(op, pc, raw))}
}

func operandText(op cpu.Op, pc uint16, raw []uint8) string {
	switch op.Mode {
	case cpu.Implied:
		return ""
	case cpu.Accumulator:
		return "A"
	case cpu.Immediate:
		return fmt.Sprintf("#$%02X", raw[1])
	case cpu.ZeroPage:
		return fmt.Sprintf("$%02X", raw[1])
	case cpu.ZeroPageX:
		return fmt.Sprintf("$%02X,X", raw[1])
	case cpu.ZeroPageY:
		return fmt.Sprintf("$%02X,Y", raw[1])
	case cpu.Relative:
		target := uint16(int32(pc) + 2 + int32(int8(raw[1])))
		return fmt.Sprintf("$%04X", target)
	case cpu.Absolute:
		return fmt.Sprintf("$%04X", le16(raw[1], raw[2]))
	case cpu.AbsoluteX:
		return fmt.Sprintf("$%04X,X", le16(raw[1], raw[2]))
	case cpu.AbsoluteY:
		return fmt.Sprintf("$%04X,Y", le16(raw[1], raw[2]))
	case cpu.Indirect:
		return fmt.Sprintf("($%04X)", le16(raw[1], raw[2]))
	case cpu.IndirectX:
		return fmt.Sprintf("($%02X,X)", raw[1])
	case cpu.IndirectY:
		return fmt.Sprintf("($%02X),Y", raw[1])
	default:
		return ""
	}
}

func le16(lo, hi uint8) uint16 {
	return uint16(lo) | uint16(hi)<<8
}
