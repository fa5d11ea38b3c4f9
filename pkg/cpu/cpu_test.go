package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nes6502/pkg/bus"
)

func newTestCPU(pc uint16) (*CPU, *bus.RAM) {
	c := New()
	c.PC = pc
	return c, bus.NewRAM()
}

// a) branch not taken
func TestStepBranchNotTaken(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	c.setFlag(FlagCarry, true) // BCC only branches on a clear carry
	ram.Load(0x0000, []uint8{0x90, 0x02}) // BCC +2

	_, err := c.Step(ram)
	require.NoError(t, err, spew.Sdump(c))

	assert.Equal(t, uint16(0x02), c.PC)
}

// b) branch taken forward
func TestStepBranchTakenForward(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	c.setFlag(FlagCarry, false)
	ram.Load(0x0000, []uint8{0x90, 0x05}) // BCC +5

	_, err := c.Step(ram)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x07), c.PC)
}

// c) ADC wraps to zero with carry
func TestStepADCWrapsToZero(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	c.A = 0xFF
	c.setFlag(FlagCarry, false)
	ram.Load(0x0000, []uint8{0x69, 0x01}) // ADC #1

	_, err := c.Step(ram)
	require.NoError(t, err)

	assert.Equal(t, uint8(0x00), c.A)
	assert.Equal(t, uint16(0x02), c.PC)
	assert.True(t, c.getFlag(FlagZero))
	assert.True(t, c.getFlag(FlagCarry))
	assert.False(t, c.getFlag(FlagOverflow))
	assert.False(t, c.getFlag(FlagNegative))
}

// d) ADC signed overflow positive -> negative
func TestStepADCSignedOverflow(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	c.A = 0x50
	c.setFlag(FlagCarry, false)
	ram.Load(0x0000, []uint8{0x69, 0x50}) // ADC #$50

	_, err := c.Step(ram)
	require.NoError(t, err)

	assert.Equal(t, uint8(0xA0), c.A)
	assert.True(t, c.getFlag(FlagOverflow))
	assert.True(t, c.getFlag(FlagNegative))
	assert.False(t, c.getFlag(FlagCarry))
}

// e) JSR then RTS
func TestStepJSRThenRTS(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	c.SP = 0xFF
	ram.Load(0x0000, []uint8{0x20, 0x03, 0x00}) // JSR $0003
	ram.Load(0x0003, []uint8{0x60})             // RTS

	_, err := c.Step(ram) // JSR
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0003), c.PC)

	_, err = c.Step(ram) // RTS
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0003), c.PC)
	assert.Equal(t, uint8(0xFF), c.SP)
}

// f) indirect JMP through a pointer that does not end in 0xFF; the
// page-wrap bug is covered by the next test.
func TestStepJMPIndirect(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	ram.Load(0x0000, []uint8{0x6C, 0xFC, 0xFF})
	ram.Load(0xFFFC, []uint8{0xFC, 0xBA})

	_, err := c.Step(ram)
	require.NoError(t, err)

	assert.Equal(t, uint16(0xBAFC), c.PC)
}

func TestStepJMPIndirectPageWrapBugReproduced(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	// Pointer ends at 0x02FF: the bug reads the high byte from 0x0200,
	// not 0x0300.
	ram.Load(0x0000, []uint8{0x6C, 0xFF, 0x02})
	ram.WriteU8(0x02FF, 0x34)
	ram.WriteU8(0x0200, 0x12)
	ram.WriteU8(0x0300, 0x99) // would be picked without the bug

	_, err := c.Step(ram)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x1234), c.PC)
}

// g) INY wraps and sets ZERO
func TestStepINYWraps(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	c.Y = 0xFF
	ram.Load(0x0000, []uint8{0xC8}) // INY

	_, err := c.Step(ram)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x01), c.PC)
	assert.Equal(t, uint8(0x00), c.Y)
	assert.True(t, c.getFlag(FlagZero))
	assert.False(t, c.getFlag(FlagNegative))
}

func TestInvalidOpcodeIsFatal(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	ram.Load(0x0000, []uint8{0x02}) // unofficial JAM/KIL slot

	_, err := c.Step(ram)
	require.Error(t, err)

	var invalid *InvalidOpcode
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, uint8(0x02), invalid.Opcode)
}

func TestExecuteUnknownMnemonicReturnsInvalidCPUState(t *testing.T) {
	c, ram := newTestCPU(0x0000)

	err := c.execute(ram, Op{Mnemonic: "XXX", Mode: Implied, Cycles: 2}, 0, false, 0)

	var invalid *InvalidCPUState
	require.ErrorAs(t, err, &invalid)
}

// Universal invariant 5: two pushes then two pops recover the pushed byte.
func TestStackRoundTrip(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	c.push(ram, 0x42)
	c.push(ram, 0x99)

	got2 := c.pop(ram)
	got1 := c.pop(ram)

	assert.Equal(t, uint8(0x99), got2)
	assert.Equal(t, uint8(0x42), got1)
}

// Universal invariant 6: CMP with A==M sets CARRY and ZERO, clears NEGATIVE.
func TestCMPEqualSetsCarryAndZero(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	c.A = 0x10
	ram.Load(0x0000, []uint8{0xC9, 0x10}) // CMP #$10

	_, err := c.Step(ram)
	require.NoError(t, err)

	assert.True(t, c.getFlag(FlagCarry))
	assert.True(t, c.getFlag(FlagZero))
	assert.False(t, c.getFlag(FlagNegative))
}

// Universal invariant 8: ASL followed by LSR restores the low 7 bits and
// clears NEGATIVE.
func TestASLThenLSRRestoresLow7Bits(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	c.A = 0x55 // 0101_0101
	ram.Load(0x0000, []uint8{0x0A, 0x4A}) // ASL A; LSR A

	_, err := c.Step(ram)
	require.NoError(t, err)
	_, err = c.Step(ram)
	require.NoError(t, err)

	assert.Equal(t, uint8(0x55&0x7F), c.A&0x7F)
	assert.False(t, c.getFlag(FlagNegative))
}

// Universal invariant 4: BREAK2 is always set in live P after PLP/RTI.
func TestPLPForcesBreak2(t *testing.T) {
	c, ram := newTestCPU(0x0000)
	c.push(ram, 0x00) // pushed P with everything clear, including BREAK2
	ram.Load(0x0000, []uint8{0x28}) // PLP

	_, err := c.Step(ram)
	require.NoError(t, err, spew.Sdump(c))

	assert.True(t, c.getFlag(FlagBreak2))
	assert.False(t, c.getFlag(FlagBreak1))
}

func TestPowerOnInvariant(t *testing.T) {
	c := New()
	assert.Equal(t, uint8(0), c.A)
	assert.Equal(t, uint8(0), c.X)
	assert.Equal(t, uint8(0), c.Y)
	assert.Equal(t, uint8(0xFD), c.SP)
	assert.Equal(t, uint8(FlagInterruptDisable|FlagBreak2), c.P)
}
