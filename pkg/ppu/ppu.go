// Package ppu provides the register-facing stub that satisfies the PPU
// region of the NES memory map. Pixel generation is out of scope for the
// CPU core project (see DESIGN.md); only the behavior a CPU program can
// observe through $2000-$2007 is modeled.
package ppu

import (
	"nes6502/pkg/logger"
)

// PPU models the eight CPU-visible PPU registers and the VBlank flag
// sequencing a program can observe by polling $2002.
type PPU struct {
	ctrl   uint8 // $2000
	mask   uint8 // $2001
	status uint8 // $2002

	oamAddr uint8
	oam     [256]uint8

	// Internal write-toggle latch shared by $2005/$2006.
	writeToggle bool
	vramAddr    uint16
	readBuffer  uint8

	vram [0x4000]uint8

	// NMIRequested is set when VBlank starts while NMI generation is
	// enabled in PPUCTRL; delivering the interrupt to the CPU is the
	// caller's responsibility.
	NMIRequested bool
}

// Register bit masks.
const (
	CtrlNMIEnable = 0x80

	StatusVBlank = 0x80
)

// New creates a PPU register stub.
func New() *PPU {
	return &PPU{}
}

// Reset clears register state to power-on values.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.writeToggle = false
	p.vramAddr = 0
	p.NMIRequested = false
}

// SignalVBlank marks the start of VBlank. The NES integration layer calls
// this once per frame from whatever drives PPU timing (out of core scope).
func (p *PPU) SignalVBlank() {
	p.status |= StatusVBlank
	if p.ctrl&CtrlNMIEnable != 0 {
		p.NMIRequested = true
	}
}

// ReadRegister implements the $2000-$2007 read side effects a CPU program
// can observe: PPUSTATUS clears VBlank and the write latch; PPUDATA is
// buffered except in palette space.
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0x2002:
		value := p.status
		logger.LogPPU("read PPUSTATUS: $%02X", value)
		p.status &^= StatusVBlank
		p.writeToggle = false
		return value
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		var value uint8
		if p.vramAddr >= 0x3F00 {
			value = p.vram[p.vramAddr%0x4000]
		} else {
			value = p.readBuffer
			p.readBuffer = p.vram[p.vramAddr%0x4000]
		}
		p.advanceVRAMAddr()
		return value
	default:
		return 0
	}
}

// WriteRegister implements the $2000-$2007 write side effects a CPU
// program can observe.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0x2000:
		p.ctrl = value
	case 0x2001:
		p.mask = value
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		p.writeToggle = !p.writeToggle
	case 0x2006:
		if !p.writeToggle {
			p.vramAddr = (p.vramAddr & 0x00FF) | (uint16(value&0x3F) << 8)
		} else {
			p.vramAddr = (p.vramAddr & 0xFF00) | uint16(value)
		}
		p.writeToggle = !p.writeToggle
	case 0x2007:
		p.vram[p.vramAddr%0x4000] = value
		p.advanceVRAMAddr()
	}
}

func (p *PPU) advanceVRAMAddr() {
	if p.ctrl&0x04 != 0 {
		p.vramAddr += 32
	} else {
		p.vramAddr++
	}
}
