package emu

import (
	"github.com/go-faster/errors"

	"nescore/hw"
	"nescore/hw/mappers"
	"nescore/hw/snapshot"
	"nescore/ines"
)

// The PPU runs 3 dots per CPU cycle (NTSC).
const ppuTicksPerCPUCycle = 3

const (
	SoftReset = true
	HardReset = false
)

// NES is a complete console: CPU, PPU, APU and the cartridge, wired on the
// CPU bus.
type NES struct {
	CPU    *hw.CPU
	PPU    *hw.PPU
	APU    *hw.APU
	Bus    *hw.Bus
	Mapper hw.Mapper
	Rom    *ines.Rom
}

// PowerUp builds a console around rom and performs a hard reset.
func PowerUp(rom *ines.Rom) (*NES, error) {
	mapper, err := mappers.New(rom)
	if err != nil {
		return nil, errors.Wrap(err, "power up")
	}

	ppu := hw.NewPPU(mapper)
	apu := hw.NewAPU()
	bus := hw.NewBus(ppu, apu, hw.NewInputPorts(nil), mapper)
	cpu := hw.NewCPU(bus)
	bus.ConnectCPU(cpu)
	ppu.NMI = cpu

	nes := &NES{
		CPU:    cpu,
		PPU:    ppu,
		APU:    apu,
		Bus:    bus,
		Mapper: mapper,
		Rom:    rom,
	}
	nes.Reset(HardReset)
	return nes, nil
}

// PlugInputDevice connects the controllers.
func (nes *NES) PlugInputDevice(dev hw.InputDevice) {
	nes.Bus.Input.Plug(dev)
}

func (nes *NES) Reset(soft bool) {
	nes.PPU.Reset()
	nes.APU.Reset(soft)
	nes.CPU.Reset(soft)
}

// Step executes one CPU instruction, then advances the PPU and APU by the
// same amount of time. It returns the number of CPU cycles elapsed.
func (nes *NES) Step() (int, error) {
	n, err := nes.CPU.Step()
	if err != nil {
		return 0, err
	}
	for i, ticks := 0, n*ppuTicksPerCPUCycle; i < ticks; i++ {
		nes.PPU.Tick()
	}
	nes.APU.Tick(n)
	return n, nil
}

// RunOneFrame runs the console until the PPU completes the current frame.
func (nes *NES) RunOneFrame() error {
	frame := nes.PPU.Frame
	for nes.PPU.Frame == frame {
		if _, err := nes.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunInstructions executes n instructions.
func (nes *NES) RunInstructions(n int64) error {
	for i := int64(0); i < n; i++ {
		if _, err := nes.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns a copy of the console state.
func (nes *NES) Snapshot() *snapshot.NES {
	s := &snapshot.NES{
		Frame: nes.PPU.Frame,
		CPU:   nes.CPU.Snapshot(),
		PPU:   nes.PPU.Snapshot(),
		APU:   nes.APU.Snapshot(),
	}
	copy(s.RAM[:], nes.Bus.RAM.Data)
	return s
}
