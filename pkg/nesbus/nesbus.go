// Package nesbus implements the concrete NES memory map: the Bus the CPU
// core is driven over once wired to real RAM, a PPU, a gamepad, and a
// cartridge. The CPU core never imports this package; nesbus satisfies
// pkg/bus.Bus through its ReadU8/WriteU8 methods without importing it.
package nesbus

import "nes6502/pkg/logger"

// PPU is the register-facing surface nesbus needs from pkg/ppu.
type PPU interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
}

// Cartridge is the PRG banking surface nesbus needs from pkg/cartridge.
type Cartridge interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
}

// Gamepad is the strobe/shift-register surface nesbus needs from
// pkg/gamepad.
type Gamepad interface {
	Read() uint8
	Write(value uint8)
}

// Bus is the NES integration layer's bus.Bus implementation: 2 KiB RAM
// mirrored across 0x0000-0x1FFF, PPU registers mirrored every 8 bytes
// across 0x2000-0x3FFF, gamepad ports at 0x4016/0x4017, an open-bus stub
// for the remaining 0x4000-0x401F APU/IO range (audio has no home in this
// module, see DESIGN.md), and the cartridge PRG window at 0x8000-0xFFFF.
type Bus struct {
	RAM [2048]uint8

	PPU       PPU
	Cartridge Cartridge
	Gamepad1  Gamepad
	Gamepad2  Gamepad
}

// New returns a Bus with RAM zeroed and no collaborators attached; a
// caller wires PPU/Cartridge/Gamepad1/Gamepad2 in before use.
func New() *Bus {
	return &Bus{}
}

// ReadU8 implements bus.Bus.
func (b *Bus) ReadU8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.RAM[addr&0x07FF]
	case addr < 0x4000:
		if b.PPU == nil {
			return 0
		}
		return b.PPU.ReadRegister(0x2000 + addr&0x0007)
	case addr == 0x4016:
		if b.Gamepad1 == nil {
			return 0
		}
		return b.Gamepad1.Read()
	case addr == 0x4017:
		if b.Gamepad2 == nil {
			return 0
		}
		return b.Gamepad2.Read()
	case addr < 0x4020:
		return 0 // APU/IO open bus, out of this module's scope
	case addr >= 0x6000:
		if b.Cartridge == nil {
			return 0
		}
		return b.Cartridge.ReadPRG(addr)
	default:
		return 0 // 0x4020-0x5FFF unmapped
	}
}

// WriteU8 implements bus.Bus.
func (b *Bus) WriteU8(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.RAM[addr&0x07FF] = value
	case addr < 0x4000:
		if b.PPU != nil {
			ppuAddr := 0x2000 + addr&0x0007
			logger.LogCPU("nesbus: PPU register write $%04X = $%02X", ppuAddr, value)
			b.PPU.WriteRegister(ppuAddr, value)
		}
	case addr == 0x4016:
		if b.Gamepad1 != nil {
			b.Gamepad1.Write(value)
		}
		if b.Gamepad2 != nil {
			b.Gamepad2.Write(value)
		}
	case addr == 0x4017:
		// APU frame counter on real hardware; no APU in this module.
	case addr < 0x4020:
		// APU/IO open bus.
	case addr >= 0x8000:
		// NROM ignores writes to the ROM window; nesbus just forwards.
		if b.Cartridge != nil {
			b.Cartridge.WritePRG(addr, value)
		}
	case addr >= 0x6000:
		// PRG RAM, if the cartridge has any.
		if b.Cartridge != nil {
			b.Cartridge.WritePRG(addr, value)
		}
	default:
		// 0x4020-0x5FFF unmapped.
	}
}
