package cpu

import "nes6502/pkg/bus"

// resolve advances PC past mode's operand bytes and returns the effective
// address for the given addressing mode. hasAddr is false only for Implied
// and Accumulator, which consume no operand bytes and have no address at
// all.
// All additions wrap at their respective widths; Go's unsigned arithmetic
// already does this for uint8/uint16, so no bounds checks are needed.
func (c *CPU) resolve(b bus.Bus, mode Mode) (addr uint16, hasAddr bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false

	case Immediate, Relative:
		addr := c.PC
		c.PC++
		return addr, true

	case ZeroPage:
		addr := uint16(c.read(b, c.PC))
		c.PC++
		return addr, true

	case ZeroPageX:
		base := c.read(b, c.PC)
		c.PC++
		return uint16(base + c.X), true

	case ZeroPageY:
		base := c.read(b, c.PC)
		c.PC++
		return uint16(base + c.Y), true

	case Absolute:
		addr := bus.ReadU16LE(b, c.PC)
		c.PC += 2
		return addr, true

	case AbsoluteX:
		base := bus.ReadU16LE(b, c.PC)
		c.PC += 2
		return base + uint16(c.X), true

	case AbsoluteY:
		base := bus.ReadU16LE(b, c.PC)
		c.PC += 2
		return base + uint16(c.Y), true

	case Indirect:
		ptr := bus.ReadU16LE(b, c.PC)
		c.PC += 2
		if ptr&0x00FF == 0x00FF {
			// Page-wrap bug: the high byte is fetched from the start of
			// the same page instead of the following page.
			lo := c.read(b, ptr)
			hi := c.read(b, ptr&0xFF00)
			return uint16(hi)<<8 | uint16(lo), true
		}
		return bus.ReadU16LE(b, ptr), true

	case IndirectX:
		base := c.read(b, c.PC)
		c.PC++
		ptr := uint16(base + c.X)
		lo := c.read(b, ptr&0x00FF)
		hi := c.read(b, (ptr+1)&0x00FF)
		return uint16(hi)<<8 | uint16(lo), true

	case IndirectY:
		base := c.read(b, c.PC)
		c.PC++
		lo := c.read(b, uint16(base))
		hi := c.read(b, uint16(base+1)&0x00FF)
		ptrBase := uint16(hi)<<8 | uint16(lo)
		return ptrBase + uint16(c.Y), true
	}

	return 0, false
}
