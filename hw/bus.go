package hw

import (
	"nescore/hw/hwio"
)

// Bus is the CPU address bus. It owns the internal RAM and routes each access
// to its owner:
//
//	$0000-$1FFF  2KB internal RAM, mirrored every $800
//	$2000-$3FFF  PPU registers, mirrored every 8 bytes
//	$4000-$4013  APU channel registers
//	$4014        OAM DMA
//	$4015        APU status
//	$4016-$4017  controller ports (writes to $4017 go to the APU frame counter)
//	$4018-$FFFF  cartridge mapper
type Bus struct {
	RAM    *hwio.Mem
	PPU    *PPU
	APU    *APU
	Input  *InputPorts
	Mapper Mapper
	DMA    *DMA
}

func NewBus(ppu *PPU, apu *APU, input *InputPorts, mapper Mapper) *Bus {
	b := &Bus{
		RAM:    hwio.NewMem("RAM", 0x800, hwio.MemFlagReadWrite),
		PPU:    ppu,
		APU:    apu,
		Input:  input,
		Mapper: mapper,
	}
	b.DMA = newDMA(b, ppu)
	return b
}

// ConnectCPU gives the bus a way to stall the CPU during OAM DMA.
func (b *Bus) ConnectCPU(cpu *CPU) {
	b.DMA.cpu = cpu
}

func (b *Bus) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.RAM.Read8(addr)
	case addr < 0x4000:
		return b.PPU.ReadReg(addr)
	case addr == 0x4015:
		return b.APU.STATUS.Read8(addr)
	case addr == 0x4016:
		return b.Input.In.Read8(addr)
	case addr == 0x4017:
		return b.Input.Out.Read8(addr)
	case addr < 0x4018:
		// write-only APU registers and OAMDMA.
		return 0
	}
	return b.Mapper.ReadPRG(addr)
}

// Peek8 reads without side effects.
func (b *Bus) Peek8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.RAM.Peek8(addr)
	case addr < 0x4000:
		return b.PPU.PeekReg(addr)
	case addr == 0x4015:
		return b.APU.STATUS.Peek8(addr)
	case addr == 0x4016:
		return b.Input.In.Peek8(addr)
	case addr == 0x4017:
		return b.Input.Out.Peek8(addr)
	case addr < 0x4018:
		return 0
	}
	return b.Mapper.ReadPRG(addr)
}

func (b *Bus) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		b.RAM.Write8(addr, val)
	case addr < 0x4000:
		b.PPU.WriteReg(addr, val)
	case addr < 0x4014:
		b.APU.WriteReg(addr, val)
	case addr == 0x4014:
		b.DMA.OAMDMA.Write8(addr, val)
	case addr == 0x4015:
		b.APU.STATUS.Write8(addr, val)
	case addr == 0x4016:
		b.Input.In.Write8(addr, val)
	case addr == 0x4017:
		b.APU.FRAME.Write8(addr, val)
	default:
		b.Mapper.WritePRG(addr, val)
	}
}

func (b *Bus) Read16(addr uint16) uint16 {
	return hwio.Read16(b, addr)
}

func (b *Bus) Write16(addr uint16, val uint16) {
	hwio.Write16(b, addr, val)
}
