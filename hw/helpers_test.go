package hw

import (
	"testing"

	"nescore/hw/hwio"
	"nescore/ines"
	"nescore/tests"
)

// loadCPUWith returns a reset CPU connected to a flat 64KB memory loaded
// with the given hexdump.
func loadCPUWith(tb testing.TB, dump string) *CPU {
	tb.Helper()

	chunks, err := tests.ParseHexdump(dump)
	tests.Check(tb, err)

	mem := hwio.NewMem("RAM", 0x10000, hwio.MemFlagReadWrite)
	for _, c := range chunks {
		copy(mem.Data[c.Addr:], c.Data)
	}

	cpu := NewCPU(mem)
	cpu.Reset(false)
	return cpu
}

// runAndCheckState runs the CPU until at least ncycles have elapsed, then
// checks the CPU state against the given key/value pairs. Keys are register
// names (A, X, Y, P, SP, PC), single flags (Pn, Pv, Pd, Pi, Pz, Pc) or "mem"
// followed by a hexdump of the expected memory content.
func runAndCheckState(tb testing.TB, cpu *CPU, ncycles int64, states ...any) {
	tb.Helper()

	for cpu.Cycles < ncycles {
		_, err := cpu.Step()
		tests.Check(tb, err)
	}

	if len(states)%2 != 0 {
		panic("states should have an even number of elements")
	}

	flag := func(f P) int {
		if cpu.P&f != 0 {
			return 1
		}
		return 0
	}

	for i := 0; i < len(states); i += 2 {
		key := states[i].(string)
		if key == "mem" {
			wantMem(tb, cpu.Bus, states[i+1].(string))
			continue
		}

		want := states[i+1].(int)
		var got int
		switch key {
		case "A":
			got = int(cpu.A)
		case "X":
			got = int(cpu.X)
		case "Y":
			got = int(cpu.Y)
		case "P":
			got = int(cpu.P)
		case "SP":
			got = int(cpu.SP)
		case "PC":
			got = int(cpu.PC)
		case "Pn":
			got = flag(Negative)
		case "Pv":
			got = flag(Overflow)
		case "Pd":
			got = flag(Decimal)
		case "Pi":
			got = flag(Interrupt)
		case "Pz":
			got = flag(Zero)
		case "Pc":
			got = flag(Carry)
		default:
			tb.Fatalf("unknown key %q", key)
		}

		if got != want {
			tb.Errorf("%s = 0x%02x, want 0x%02x", key, got, want)
		}
	}
}

func wantMem(tb testing.TB, bus hwio.BankIO8, dump string) {
	tb.Helper()

	chunks, err := tests.ParseHexdump(dump)
	tests.Check(tb, err)

	for _, c := range chunks {
		for i, want := range c.Data {
			addr := c.Addr + uint16(i)
			if got := bus.Peek8(addr); got != want {
				tb.Errorf("mem[0x%04x] = 0x%02x, want 0x%02x", addr, got, want)
			}
		}
	}
}

func wantMem8(tb testing.TB, cpu *CPU, addr uint16, want uint8) {
	tb.Helper()

	if got := cpu.Bus.Peek8(addr); got != want {
		tb.Errorf("mem[0x%04x] = 0x%02x, want 0x%02x", addr, got, want)
	}
}

// fakeCart is a cartridge with a flat 32KB PRG-ROM at $8000 and no CHR.
type fakeCart struct {
	prg [0x8000]byte
	mir ines.NTMirroring
}

func (c *fakeCart) Name() string                    { return "fake" }
func (c *fakeCart) ReadPRG(addr uint16) uint8       { return c.prg[addr&0x7FFF] }
func (c *fakeCart) WritePRG(addr uint16, val uint8) {}
func (c *fakeCart) MapsCHR() bool                   { return false }
func (c *fakeCart) ReadCHR(addr uint16) uint8       { return 0 }
func (c *fakeCart) WriteCHR(addr uint16, val uint8) {}
func (c *fakeCart) Mirroring() ines.NTMirroring     { return c.mir }

// load copies a hexdump in PRG, addresses are CPU addresses ($8000-$FFFF).
func (c *fakeCart) load(tb testing.TB, dump string) {
	tb.Helper()

	chunks, err := tests.ParseHexdump(dump)
	tests.Check(tb, err)
	for _, ch := range chunks {
		copy(c.prg[ch.Addr&0x7FFF:], ch.Data)
	}
}

type nmiCounter int

func (n *nmiCounter) TriggerNMI() { *n++ }

type pads [2]uint8

func (p pads) LoadState() (uint8, uint8) { return p[0], p[1] }

// newTestNES wires a complete console around a fake cartridge.
func newTestNES(tb testing.TB, dump string) (*CPU, *Bus) {
	tb.Helper()

	cart := &fakeCart{}
	cart.load(tb, dump)

	ppu := NewPPU(cart)
	bus := NewBus(ppu, NewAPU(), NewInputPorts(nil), cart)
	cpu := NewCPU(bus)
	bus.ConnectCPU(cpu)
	ppu.NMI = cpu
	cpu.Reset(false)
	return cpu, bus
}
