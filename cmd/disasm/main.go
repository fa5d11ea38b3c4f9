// Command disasm disassembles a raw 6502 binary or an iNES ROM's PRG bank
// to stdout, one instruction per line.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nes6502/pkg/bus"
	"nes6502/pkg/cartridge"
	"nes6502/pkg/disasm"
)

func main() {
	var startPC uint16
	var count int
	var raw bool

	root := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Disassemble a 6502 program or iNES ROM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			b := bus.NewRAM()
			pc := startPC

			if raw {
				b.Load(startPC, data)
			} else {
				cart, err := cartridge.LoadFromReader(bytes.NewReader(data))
				if err != nil {
					return fmt.Errorf("loading cartridge: %w", err)
				}
				for i := 0; i < 0x8000; i++ {
					b.WriteU8(uint16(0x8000+i), cart.ReadPRG(uint16(0x8000+i)))
				}
				if cmd.Flags().Changed("start") {
					pc = startPC
				} else {
					pc = bus.ReadU16LE(b, 0xFFFC)
				}
			}

			for i := 0; i < count; i++ {
				line := disasm.Step(pc, b)
				fmt.Printf("%04X  %-8s  %s\n", line.PC, hexBytes(line.Bytes), line.Text)
				pc += uint16(len(line.Bytes))
			}
			return nil
		},
	}

	root.Flags().Uint16Var(&startPC, "start", 0x8000, "address to start disassembling at (ignored for ROMs unless --start is explicit, which then overrides the reset vector)")
	root.Flags().IntVar(&count, "count", 64, "number of instructions to disassemble")
	root.Flags().BoolVar(&raw, "raw", false, "treat the input file as a raw binary loaded at --start rather than an iNES ROM")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func hexBytes(b []uint8) string {
	out := make([]byte, 0, len(b)*3)
	for i, v := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, fmt.Sprintf("%02X", v)...)
	}
	return string(out)
}
