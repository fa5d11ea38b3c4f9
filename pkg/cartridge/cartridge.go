// Package cartridge parses an iNES ROM image and exposes the PRG address
// space nesbus needs: a plain NROM mapping (no bank switching), which is
// the only mapper the CPU-core collaborator surface exercises.
package cartridge

import (
	"fmt"
	"io"
)

// Cartridge holds a loaded NROM image: program ROM, optional battery/SRAM
// backed PRG RAM, and the subset of the iNES header a PRG-only consumer
// cares about.
type Cartridge struct {
	PRGROM []uint8
	PRGRAM []uint8

	Header    iNESHeader
	Mirroring MirroringMode
}

// iNESHeader is the 16-byte iNES file header.
type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8 // in 16KB units
	CHRROMSize uint8 // in 8KB units
	Flags6     uint8
	Flags7     uint8
}

// MirroringMode records the nametable mirroring bit from Flags6. Nothing
// in this module consumes it yet (there is no PPU nametable), but it is
// part of what a ROM's header asserts and costs nothing to parse and
// carry alongside PRGROM.
type MirroringMode int

const (
	MirroringHorizontal MirroringMode = iota
	MirroringVertical
	MirroringFourScreen
)

// LoadFromReader parses an iNES image and returns its NROM-mapped PRG
// space. CHR data, if present, is skipped: nothing in this module reads
// tile graphics.
func LoadFromReader(reader io.Reader) (*Cartridge, error) {
	cart := &Cartridge{}

	headerBytes := make([]uint8, 16)
	if _, err := io.ReadFull(reader, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	copy(cart.Header.Magic[:], headerBytes[0:4])
	if string(cart.Header.Magic[:]) != "NES\x1A" {
		return nil, fmt.Errorf("invalid iNES magic number")
	}
	cart.Header.PRGROMSize = headerBytes[4]
	cart.Header.CHRROMSize = headerBytes[5]
	cart.Header.Flags6 = headerBytes[6]
	cart.Header.Flags7 = headerBytes[7]

	if cart.Header.Flags6&0x04 != 0 {
		trainer := make([]uint8, 512)
		if _, err := io.ReadFull(reader, trainer); err != nil {
			return nil, fmt.Errorf("failed to read trainer: %w", err)
		}
	}

	prgSize := int(cart.Header.PRGROMSize) * 16384
	cart.PRGROM = make([]uint8, prgSize)
	if _, err := io.ReadFull(reader, cart.PRGROM); err != nil {
		return nil, fmt.Errorf("failed to read PRG ROM: %w", err)
	}

	if cart.Header.Flags6&0x02 != 0 {
		cart.PRGRAM = make([]uint8, 8192)
	}

	switch {
	case cart.Header.Flags6&0x08 != 0:
		cart.Mirroring = MirroringFourScreen
	case cart.Header.Flags6&0x01 != 0:
		cart.Mirroring = MirroringVertical
	default:
		cart.Mirroring = MirroringHorizontal
	}

	return cart, nil
}

// ReadPRG implements the NROM PRG mapping: $6000-$7FFF is PRG RAM (if
// present), $8000-$FFFF is PRG ROM, mirrored every 16KB for a one-bank
// (NROM-128) image.
func (c *Cartridge) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		off := addr - 0x8000
		if len(c.PRGROM) == 16384 {
			off %= 16384
		}
		if int(off) < len(c.PRGROM) {
			return c.PRGROM[off]
		}
	case addr >= 0x6000 && len(c.PRGRAM) > 0:
		off := addr - 0x6000
		if int(off) < len(c.PRGRAM) {
			return c.PRGRAM[off]
		}
	}
	return 0
}

// WritePRG writes to PRG RAM, if present. NROM has no bank-select
// registers, so writes to the ROM window are simply dropped.
func (c *Cartridge) WritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 && len(c.PRGRAM) > 0 {
		off := addr - 0x6000
		if int(off) < len(c.PRGRAM) {
			c.PRGRAM[off] = value
		}
	}
}
