package hw

import (
	"io"

	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

const (
	nmiCycles    = 7
	oamDMACycles = 513
)

type CPU struct {
	Bus hwio.BankIO8

	Cycles int64 // CPU cycles

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	nmiPending bool
	extra      int // extra cycles of the current instruction (branches)
	stall      int // cycles stolen by DMA during the current instruction

	// Non-nil when execution tracing is enabled.
	tracer *tracer
	// Non-nil when code coverage is enabled.
	coverage *hwio.Bitset
}

// NewCPU creates a new CPU at power-up state, accessing memory through bus.
// Reset must be called before the first Step.
func NewCPU(bus hwio.BankIO8) *CPU {
	return &CPU{
		Bus: bus,
		SP:  0xFD,
		P:   0x34,
	}
}

// Reset puts the CPU in its cold boot state (soft=false) or simulates the
// reset button (soft=true), then jumps to the reset vector.
func (c *CPU) Reset(soft bool) {
	if soft {
		c.SP -= 0x03
		c.P = c.P.SetIntDisable(true)
	} else {
		c.A = 0x00
		c.X = 0x00
		c.Y = 0x00
		c.SP = 0xFD
		c.P = 0x34
		c.Cycles = 0
	}

	c.nmiPending = false
	c.stall = 0
	c.PC = hwio.Read16(c.Bus, ResetVector)

	log.ModCPU.InfoZ("reset").
		Bool("soft", soft).
		Hex16("PC", c.PC).
		End()
}

// TriggerNMI signals an NMI edge. It is serviced before the next opcode fetch.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// Stall makes the CPU skip cycles at the end of the current instruction, as
// during OAM DMA.
func (c *CPU) Stall(cycles int) {
	c.stall += cycles
}

// startOAMDMA stalls the CPU for the duration of an OAM DMA transfer: 513
// cycles, plus one if the transfer begins on an odd cycle.
func (c *CPU) startOAMDMA() {
	n := oamDMACycles
	if c.Cycles&1 == 1 {
		n++
	}
	c.Stall(n)
}

// Step executes one instruction (or services a pending NMI) and returns the
// number of elapsed CPU cycles.
func (c *CPU) Step() (int, error) {
	if c.nmiPending {
		c.nmiPending = false
		c.nmi()
		c.Cycles += nmiCycles
		return nmiCycles, nil
	}

	pc := c.PC
	opcode := c.Bus.Read8(pc)
	op := &ops[opcode]
	if op.exec == nil {
		log.ModCPU.ErrorZ("unimplemented opcode").
			Hex8("opcode", opcode).
			Hex16("PC", pc).
			End()
		return 0, &UnimplementedOpcodeError{Opcode: opcode, PC: pc}
	}

	if c.tracer != nil {
		c.tracer.write(c.State())
	}
	if c.coverage != nil {
		c.coverage.Set(pc)
	}

	addr, crossed := c.operand(op.mode)
	c.PC = pc + uint16(op.mode.size())
	c.extra = 0
	op.exec(c, addr)

	cycles := int(op.cycles) + c.extra + c.stall
	if crossed && op.penalty {
		cycles++
	}
	c.stall = 0
	c.Cycles += int64(cycles)
	return cycles, nil
}

func (c *CPU) nmi() {
	c.push16(c.PC)
	c.push8(c.P.pushed(false))
	c.P = c.P.SetIntDisable(true)
	c.PC = hwio.Read16(c.Bus, NMIVector)

	log.ModCPU.DebugZ("NMI").
		Hex16("PC", c.PC).
		End()
}

/* memory access */

func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.Read8(addr)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	return hwio.Read16(c.Bus, addr)
}

// read16zp reads a word from the zero page, wrapping within page 0.
func (c *CPU) read16zp(addr uint8) uint16 {
	lo := c.Read8(uint16(addr))
	hi := c.Read8(uint16(addr + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// read16bug reads a word without carrying into the high byte of the address
// (JMP indirect page-wrap bug).
func (c *CPU) read16bug(addr uint16) uint16 {
	lo := c.Read8(addr)
	hi := c.Read8(addr&0xFF00 | uint16(uint8(addr)+1))
	return uint16(hi)<<8 | uint16(lo)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	top := uint16(c.SP) + 0x0100
	c.Write8(top, val)
	c.SP -= 1
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	top := uint16(c.SP) + 0x0100
	return c.Read8(top)
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* tracing / debugging */

// SetTraceOutput enables the execution trace in nestest log format. pos, if
// not nil, provides the PPU position shown in the trace.
func (c *CPU) SetTraceOutput(w io.Writer, pos PPUPosition) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w, d: c, pos: pos}
}

// EnableCoverage starts recording the address of each executed instruction.
func (c *CPU) EnableCoverage() *hwio.Bitset {
	c.coverage = new(hwio.Bitset)
	return c.coverage
}

// CPUState is a snapshot of the CPU registers.
type CPUState struct {
	A, X, Y uint8
	P       P
	SP      uint8
	PC      uint16
	Cycles  int64
}

// State returns a snapshot of the CPU registers.
func (c *CPU) State() CPUState {
	return CPUState{
		A:      c.A,
		X:      c.X,
		Y:      c.Y,
		P:      c.P,
		SP:     c.SP,
		PC:     c.PC,
		Cycles: c.Cycles,
	}
}
