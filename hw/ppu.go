package hw

import (
	"image"

	"nescore/emu/log"
	"nescore/hw/hwio"
	"nescore/ines"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumCycles    = 341 // Number of PPU cycles per scanline.

	ScreenWidth  = 256
	ScreenHeight = 240
)

// NMILine is the CPU input the PPU pulls at the start of vertical blank.
type NMILine interface {
	TriggerNMI()
}

// Cartridge is what the PPU sees of the cartridge: CHR memory and the
// nametable mirroring. Mapper implements it.
type Cartridge interface {
	MapsCHR() bool
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, val uint8)
	Mirroring() ines.NTMirroring
}

type PPU struct {
	Cart Cartridge
	NMI  NMILine

	Cycle    int    // Current dot in scanline [0, 340]
	Scanline int    // Current scanline [-1, 260]; -1 is the pre-render line.
	Frame    uint64 // Number of frames since reset.
	oddFrame bool

	// CPU-exposed memory-mapped PPU registers
	// mapped from $2000 to $2007, mirrored up to $3fff
	PPUCTRL   hwio.Reg8
	PPUMASK   hwio.Reg8
	PPUSTATUS hwio.Reg8
	OAMADDR   hwio.Reg8
	OAMDATA   hwio.Reg8
	PPUSCROLL hwio.Reg8
	PPUADDR   hwio.Reg8
	PPUDATA   hwio.Reg8
	regs      [8]*hwio.Reg8

	// Pattern tables, when the cartridge doesn't map CHR.
	CHRRAM *hwio.Mem
	// Nametables: 2KB are used, 4KB in four-screen mode.
	Nametables *hwio.Mem
	Palettes   [32]byte
	OAM        [256]byte

	// Internal registers: current and temporary VRAM address, fine X
	// scroll and the $2005/$2006 write toggle.
	v, t       uint16
	x          uint8
	writeLatch bool

	ppuDataRbuf uint8

	// Background fetch pipeline.
	ntByte, atByte    uint8
	lowTile, highTile uint8
	tileData          uint64

	// Sprites selected for the current scanline.
	spriteCount      int
	spritePatterns   [8]uint32
	spritePositions  [8]uint8
	spritePriorities [8]uint8
	spriteIndexes    [8]uint8

	front, back *image.RGBA
}

func NewPPU(cart Cartridge) *PPU {
	p := &PPU{
		Cart:       cart,
		CHRRAM:     hwio.NewMem("CHRRAM", 0x2000, hwio.MemFlagReadWrite),
		Nametables: hwio.NewMem("NT", 0x1000, hwio.MemFlagReadWrite),
		front:      image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
		back:       image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
	}
	p.initRegs()
	p.Reset()
	return p
}

func (p *PPU) Reset() {
	p.Cycle = 0
	p.Scanline = -1
	p.Frame = 0
	p.oddFrame = false

	p.PPUCTRL.Value = 0
	p.PPUMASK.Value = 0
	p.PPUSTATUS.Value = 0
	p.OAMADDR.Value = 0
	p.writeLatch = false
	p.ppuDataRbuf = 0
	p.v, p.t, p.x = 0, 0, 0
	p.spriteCount = 0
}

// Output returns the last complete frame.
func (p *PPU) Output() *image.RGBA {
	return p.front
}

// Position returns the current scanline and dot.
func (p *PPU) Position() (scanline, dot int) {
	return p.Scanline, p.Cycle
}

// OddFrame reports the parity of the current frame.
func (p *PPU) OddFrame() bool {
	return p.oddFrame
}

func (p *PPU) renderingEnabled() bool {
	return p.PPUMASK.GetBit(showBg) || p.PPUMASK.GetBit(showSprites)
}

// Tick runs the PPU for one dot.
func (p *PPU) Tick() {
	switch {
	case p.Scanline == -1:
		if p.Cycle == 1 {
			// Clear vblank, sprite0Hit and spriteOverflow
			const mask = 1<<vblank | 1<<sprite0Hit | 1<<spriteOverflow
			p.PPUSTATUS.ClearBits(mask)
		}
		p.render()
	case p.Scanline < 240:
		p.render()
	case p.Scanline == 241 && p.Cycle == 1:
		p.startVBlank()
	}

	p.advance()
}

func (p *PPU) startVBlank() {
	p.front, p.back = p.back, p.front
	p.PPUSTATUS.SetBit(vblank)
	if p.PPUCTRL.GetBit(nmi) && p.NMI != nil {
		log.ModPPU.DebugZ("NMI").Uint64("frame", p.Frame).End()
		p.NMI.TriggerNMI()
	}
}

func (p *PPU) advance() {
	p.Cycle++

	// The pre-render line is one dot shorter on odd frames.
	last := NumCycles
	if p.Scanline == -1 && p.oddFrame {
		last--
	}
	if p.Cycle < last {
		return
	}

	p.Cycle = 0
	p.Scanline++
	if p.Scanline == NumScanlines-1 {
		p.Scanline = -1
		p.Frame++
		p.oddFrame = !p.oddFrame
	}
}

/* PPU address space */

var ntMirrors = [...][4]uint16{
	ines.HorzMirroring: {0, 0, 1, 1},
	ines.VertMirroring: {0, 1, 0, 1},
	ines.OnlyAScreen:   {0, 0, 0, 0},
	ines.OnlyBScreen:   {1, 1, 1, 1},
	ines.FourScreen:    {0, 1, 2, 3},
}

// ntAddr maps an address in $2000-$3EFF to an offset in the nametables RAM.
func (p *PPU) ntAddr(addr uint16) uint16 {
	addr = (addr - 0x2000) & 0x0FFF
	table := addr / 0x400
	return ntMirrors[p.Cart.Mirroring()][table]*0x400 + addr&0x3FF
}

func paletteAddr(addr uint16) uint16 {
	addr &= 0x1F
	// $3F10/$3F14/$3F18/$3F1C mirror $3F00/$3F04/$3F08/$3F0C.
	if addr >= 16 && addr%4 == 0 {
		addr -= 16
	}
	return addr
}

func (p *PPU) read(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.Cart.MapsCHR() {
			return p.Cart.ReadCHR(addr)
		}
		return p.CHRRAM.Read8(addr)
	case addr < 0x3F00:
		return p.Nametables.Read8(p.ntAddr(addr))
	}
	return p.Palettes[paletteAddr(addr)]
}

func (p *PPU) write(addr uint16, val uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.Cart.MapsCHR() {
			p.Cart.WriteCHR(addr, val)
			return
		}
		p.CHRRAM.Write8(addr, val)
	case addr < 0x3F00:
		p.Nametables.Write8(p.ntAddr(addr), val)
	default:
		p.Palettes[paletteAddr(addr)] = val & 0x3F
	}
}
