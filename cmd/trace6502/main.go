// Command trace6502 steps a loaded program through the CPU core one
// instruction at a time, either interactively (a small bubbletea TUI) or,
// with --batch, by printing every Step's Effects to stdout until the
// requested instruction count or a decode error.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"nes6502/pkg/bus"
	"nes6502/pkg/cartridge"
	"nes6502/pkg/cpu"
	"nes6502/pkg/disasm"
)

var (
	batch   = flag.Bool("batch", false, "run non-interactively, printing each step to stdout")
	maxStep = flag.Int("steps", 256, "instruction count limit in --batch mode")
	raw     = flag.Bool("raw", false, "treat the input as a raw binary loaded at --start rather than an iNES ROM")
	start   = flag.Uint("start", 0x8000, "load address / start PC for --raw input")
)

func loadBus(path string) (bus.Bus, uint16) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	b := bus.NewRAM()
	if *raw {
		b.Load(uint16(*start), data)
		return b, uint16(*start)
	}

	cart, err := cartridge.LoadFromReader(bytes.NewReader(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading cartridge:", err)
		os.Exit(1)
	}
	for i := 0; i < 0x8000; i++ {
		b.WriteU8(uint16(0x8000+i), cart.ReadPRG(uint16(0x8000+i)))
	}
	return b, bus.ReadU16LE(b, 0xFFFC)
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file>\n", os.Args[0])
		os.Exit(1)
	}

	b, pc := loadBus(flag.Arg(0))
	c := cpu.New()
	c.PC = pc

	if *batch {
		runBatch(c, b)
		return
	}

	if _, err := tea.NewProgram(model{cpu: c, bus: b}).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBatch(c *cpu.CPU, b bus.Bus) {
	for i := 0; i < *maxStep; i++ {
		before := c.PC
		line := disasm.Step(before, b)
		effects, err := c.Step(b)
		if err != nil {
			fmt.Printf("%04X  %-20s  ERROR: %v\n", before, line.Text, err)
			return
		}
		fmt.Printf("%04X  %-20s  cycles=%d A=%02X X=%02X Y=%02X P=%02X SP=%02X\n",
			before, line.Text, effects.Cycles, c.A, c.X, c.Y, c.P, c.SP)
	}
}

// model is the interactive single-step view: press space/j to step, q to
// quit, and watch registers and the current page of memory change.
type model struct {
	cpu   *cpu.CPU
	bus   bus.Bus
	err   error
	steps int
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			if m.err != nil {
				return m, nil
			}
			_, err := m.cpu.Step(m.bus)
			m.steps++
			if err != nil {
				m.err = err
			}
		}
	}
	return m, nil
}

func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := 0; i < 16; i++ {
		addr := start + uint16(i)
		v := m.bus.ReadU8(addr)
		if addr == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", v)
		} else {
			s += fmt.Sprintf(" %02x  ", v)
		}
	}
	return s
}

func (m model) status() string {
	regs := m.cpu.Registers()
	var flags string
	for _, bit := range []uint8{
		cpu.FlagNegative, cpu.FlagOverflow, cpu.FlagBreak2, cpu.FlagBreak1,
		cpu.FlagDecimal, cpu.FlagInterruptDisable, cpu.FlagZero, cpu.FlagCarry,
	} {
		if regs.P&bit != 0 {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
steps: %d
PC: %04X
 A: %02X
 X: %02X
 Y: %02X
SP: %02X
N V _ B D I Z C
%s`, m.steps, regs.PC, regs.A, regs.X, regs.Y, regs.SP, flags)
}

func (m model) View() string {
	page := m.cpu.PC &^ 0x0F
	line := disasm.Step(m.cpu.PC, m.bus)

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderPage(page), m.status()),
		"",
		fmt.Sprintf("next: %s", line.Text),
	)
	if m.err != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", fmt.Sprintf("halted: %v", m.err), spew.Sdump(line))
	}
	return body + "\n" + strings.Repeat("-", 40) + "\n(space/j: step, q: quit)\n"
}
