package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

const (
	// PPUCTRL bits
	// $2000

	// Nametable selection mask
	// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
	ntselect = 0b11

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: +1 i.e. horizontal; 1: +32 i.e. vertical)
	vramIncr = 2

	// Sprite pattern table address for 8x8 sprites
	// (0: $0000; 1: $1000; ignored in 8x16 mode)
	spriteAddr = 3

	// Background pattern table address (0: $0000; 1: $1000)
	backgroundAddr = 4

	// Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
	spriteSize = 5

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	nmi = 7
)

const (
	// PPUMASK bits
	// $2001

	// Greyscale
	// (0: normal color, 1: produce a greyscale display)
	greyscale = 0

	// Show background in leftmost 8 pixels of screen
	leftmostBg = 1

	// Show sprites in leftmost 8 pixels of screen
	leftmostSprites = 2

	showBg      = 3
	showSprites = 4
)

const (
	// PPUSTATUS bits
	// $2002

	// Sprite overflow: more than 8 sprites on a scanline. Cleared at dot 1
	// of the pre-render line.
	spriteOverflow = 5

	// Sprite 0 Hit. Set when a nonzero pixel of sprite 0 overlaps a nonzero
	// background pixel; cleared at dot 1 of the pre-render line.
	sprite0Hit = 6

	// Vertical blank has started. Set at dot 1 of line 241; cleared after
	// reading $2002 and at dot 1 of the pre-render line.
	vblank = 7
)

func (p *PPU) initRegs() {
	p.PPUCTRL = hwio.Reg8{Name: "PPUCTRL", Flags: hwio.WriteOnlyFlag, WriteCb: p.writePPUCTRL}
	p.PPUMASK = hwio.Reg8{Name: "PPUMASK", Flags: hwio.WriteOnlyFlag}
	p.PPUSTATUS = hwio.Reg8{Name: "PPUSTATUS", Flags: hwio.ReadOnlyFlag, ReadCb: p.readPPUSTATUS}
	p.OAMADDR = hwio.Reg8{Name: "OAMADDR", Flags: hwio.WriteOnlyFlag}
	p.OAMDATA = hwio.Reg8{
		Name:    "OAMDATA",
		ReadCb:  func(uint8) uint8 { return p.OAM[p.OAMADDR.Value] },
		PeekCb:  func(uint8) uint8 { return p.OAM[p.OAMADDR.Value] },
		WriteCb: func(_, val uint8) { p.WriteOAMData(val) },
	}
	p.PPUSCROLL = hwio.Reg8{Name: "PPUSCROLL", Flags: hwio.WriteOnlyFlag, WriteCb: p.writePPUSCROLL}
	p.PPUADDR = hwio.Reg8{Name: "PPUADDR", Flags: hwio.WriteOnlyFlag, WriteCb: p.writePPUADDR}
	p.PPUDATA = hwio.Reg8{
		Name:    "PPUDATA",
		ReadCb:  p.readPPUDATA,
		PeekCb:  func(uint8) uint8 { return p.ppuDataRbuf },
		WriteCb: p.writePPUDATA,
	}

	p.regs = [8]*hwio.Reg8{
		&p.PPUCTRL, &p.PPUMASK, &p.PPUSTATUS, &p.OAMADDR,
		&p.OAMDATA, &p.PPUSCROLL, &p.PPUADDR, &p.PPUDATA,
	}
}

// ReadReg reads the PPU register mapped at addr ($2000-$3FFF, mirrored every
// 8 bytes).
func (p *PPU) ReadReg(addr uint16) uint8 {
	return p.regs[addr&7].Read8(addr)
}

// PeekReg is ReadReg without side effects.
func (p *PPU) PeekReg(addr uint16) uint8 {
	return p.regs[addr&7].Peek8(addr)
}

func (p *PPU) WriteReg(addr uint16, val uint8) {
	p.regs[addr&7].Write8(addr, val)
}

// WriteOAMData writes val in OAM at OAMADDR, and increments OAMADDR.
func (p *PPU) WriteOAMData(val uint8) {
	p.OAM[p.OAMADDR.Value] = val
	p.OAMADDR.Value++
}

// PPUCTRL: $2000
func (p *PPU) writePPUCTRL(_, val uint8) {
	log.ModPPU.DebugZ("Write to PPUCTRL").Hex8("val", val).End()

	// Transfer the nametable bits.
	p.t &^= ntselect << 10
	p.t |= (uint16(val) & ntselect) << 10
}

// PPUSTATUS: $2002
func (p *PPU) readPPUSTATUS(val uint8) uint8 {
	p.writeLatch = false
	p.PPUSTATUS.ClearBit(vblank)
	return val
}

// PPUSCROLL: $2005
func (p *PPU) writePPUSCROLL(_, val uint8) {
	log.ModPPU.DebugZ("Write to PPUSCROLL").Hex8("val", val).End()

	if !p.writeLatch { // first write
		p.x = val & 0b111
		p.t &^= 0b1_1111
		p.t |= uint16(val >> 3)
	} else { // second write
		p.t &^= 0b0111_0011_1110_0000
		p.t |= uint16(val&0b111) << 12
		p.t |= uint16(val&0b1111_1000) << 2
	}

	p.writeLatch = !p.writeLatch
}

// To read/write VRAM from CPU, PPUADDR is set to the address of the operation.
// It's a 16-bit register so 2 writes are necessary.
// PPUADDR: $2006
func (p *PPU) writePPUADDR(_, val uint8) {
	if !p.writeLatch { // first write
		p.t &^= 0b111_1111_0000_0000
		p.t |= uint16(val&0b11_1111) << 8
	} else { // second write
		p.t &^= 0xff
		p.t |= uint16(val)
		p.v = p.t
	}

	p.writeLatch = !p.writeLatch
}

// PPUDATA: $2007
func (p *PPU) readPPUDATA(_ uint8) uint8 {
	addr := p.v & 0x3FFF
	var val uint8
	if addr < 0x3F00 {
		// Reading VRAM is too slow so the actual data
		// will be returned at the next read.
		val = p.ppuDataRbuf
		p.ppuDataRbuf = p.read(addr)
	} else {
		// Reading palette data is immediate, the buffer gets the
		// nametable byte 'under' the palette.
		val = p.read(addr)
		p.ppuDataRbuf = p.read(addr - 0x1000)
	}

	log.ModPPU.DebugZ("VRAM read").
		Hex16("addr", addr).
		Hex8("val", val).
		End()
	p.incVRAMaddr()
	return val
}

// PPUDATA: $2007
func (p *PPU) writePPUDATA(_, val uint8) {
	log.ModPPU.DebugZ("VRAM write").
		Hex16("addr", p.v&0x3FFF).
		Hex8("val", val).
		End()
	p.write(p.v, val)
	p.incVRAMaddr()
}

// After each i/o on PPUDATA, the VRAM address is incremented.
func (p *PPU) incVRAMaddr() {
	if p.PPUCTRL.GetBit(vramIncr) {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7FFF
}
