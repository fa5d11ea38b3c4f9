package cpu

import (
	"fmt"

	"nes6502/pkg/bus"
)

// InvalidOpcode is returned by Step when the fetched byte decodes to no
// known op — one of the 105 unofficial/illegal slots the table leaves
// unset. Modeled as a typed error, not a bare string, so callers can
// distinguish a bad opcode from other failure modes with errors.As.
type InvalidOpcode struct {
	Opcode uint8
	PC     uint16
}

func (e *InvalidOpcode) Error() string {
	return fmt.Sprintf("cpu: invalid opcode $%02X at PC=$%04X", e.Opcode, e.PC)
}

// InvalidCPUState reports an engine invariant violation: an Op whose
// mnemonic has no case in execute, which cannot come out of the opcode
// table. execute does not check hasAddr against the op's mode. Kept as a distinct
// type from InvalidOpcode since the two failure modes mean different
// things to a caller deciding whether to treat the ROM as bad data
// (InvalidOpcode) or the implementation as broken (InvalidCPUState).
type InvalidCPUState struct {
	Reason string
}

func (e *InvalidCPUState) Error() string {
	return "cpu: invalid state: " + e.Reason
}

// Effects is the per-step trace record Step returns: what was decoded,
// where (if anywhere) it operated, and how many cycles it took. Debuggers
// and golden-log style tests consume this rather than poking at CPU
// fields directly.
type Effects struct {
	Op             Op
	OperandAddress uint16
	HasAddress     bool
	Operand        uint8
	Cycles         int
}

// Step executes exactly one instruction: fetch opcode, advance PC,
// decode, resolve the address (which may advance PC further), read the
// operand byte for the trace if an address exists, then run the engine.
// Returns InvalidOpcode if the fetched byte has no table entry.
func (c *CPU) Step(b bus.Bus) (Effects, error) {
	opcodePC := c.PC
	opcode := c.read(b, c.PC)
	c.PC++

	op, ok := decode(opcode)
	if !ok {
		return Effects{}, &InvalidOpcode{Opcode: opcode, PC: opcodePC}
	}

	addr, hasAddr := c.resolve(b, op.Mode)

	var operand uint8
	if hasAddr {
		operand = c.read(b, addr)
	}

	if err := c.execute(b, op, addr, hasAddr, operand); err != nil {
		return Effects{}, err
	}

	c.Cycles += uint64(op.Cycles)

	return Effects{
		Op:             op,
		OperandAddress: addr,
		HasAddress:     hasAddr,
		Operand:        operand,
		Cycles:         op.Cycles,
	}, nil
}
