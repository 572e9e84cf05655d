package mappers

import (
	"nescore/hw"
	"nescore/ines"
)

var MMC1 = MapperDesc{
	Name: "MMC1",
	Load: loadMMC1,
}

type mmc1 struct {
	*base

	serial  shiftReg // shift register
	counter uint8    // count of bits shifted

	// CTRL reg bits
	chrmode uint8
	prgmode uint8

	// CHR regs
	chrbank0 int
	chrbank1 int

	// PRG reg bits
	disableWRAM bool
	prgbank     int
}

type shiftReg uint8

// push shifts val's bit 0 in, LSB first: after 5 pushes, the first pushed bit
// is bit 0.
func (sr shiftReg) push(val uint8) shiftReg {
	sr >>= 1
	sr |= shiftReg((val << 4) & 0x10)
	return sr
}

func (m *mmc1) WritePRG(addr uint16, val uint8) {
	if addr < 0x8000 {
		if !m.disableWRAM {
			m.writeRAM(addr, val)
		}
		return
	}

	if val&0x80 != 0 {
		// if the resetbit is set.
		//	- ignore databit
		//	- reset shift register (so that the next write is the "first" write)
		//	- bits 2,3 of control reg are set (16k PRG mode, $8000 swappable)
		//	- other bits of $8000 (and other regs) are unchanged
		m.serial = 0
		m.counter = 0
		m.prgmode = 0b11
		m.remap()
		return
	}

	m.serial = m.serial.push(val)
	m.counter++
	if m.counter == 5 {
		m.writeREG(addr, uint8(m.serial))
		m.remap()
		m.serial = 0
		m.counter = 0
	}
}

func (m *mmc1) ReadPRG(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 && m.disableWRAM {
		return 0
	}
	return m.base.ReadPRG(addr)
}

func (m *mmc1) writeREG(addr uint16, val uint8) {
	switch {
	case addr < 0xA000:
		m.writeCTRL(val)
	case addr < 0xC000:
		m.writeCHR0(val)
	case addr < 0xE000:
		m.writeCHR1(val)
	default:
		m.writePRG(val)
	}
}

func (m *mmc1) writeCTRL(val uint8) {
	m.chrmode = (val & 0x10) >> 4
	m.prgmode = (val & 0x0C) >> 2

	switch val & 0x03 {
	case 0:
		m.setNTMirroring(ines.OnlyAScreen)
	case 1:
		m.setNTMirroring(ines.OnlyBScreen)
	case 2:
		m.setNTMirroring(ines.VertMirroring)
	case 3:
		m.setNTMirroring(ines.HorzMirroring)
	}

	modMapper.DebugZ("Write CTRL reg").String("mapper", m.desc.Name).
		Uint8("val", val).
		Uint8("prgmode", m.prgmode).
		Uint8("chrmode", m.chrmode).
		End()
}

func (m *mmc1) writeCHR0(val uint8) {
	modMapper.DebugZ("Write CHR0 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank0 = int(val & 0b11111)
}

func (m *mmc1) writeCHR1(val uint8) {
	modMapper.DebugZ("Write CHR1 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank1 = int(val & 0b11111)
}

func (m *mmc1) writePRG(val uint8) {
	modMapper.DebugZ("Write PRG reg").String("mapper", m.desc.Name).Uint8("val", val).End()

	// $E000-FFFF:  [...W PPPP]
	// W = WRAM Disable (0=enabled, 1=disabled)
	// P = PRG Reg
	m.disableWRAM = val&0b1_0000 != 0
	m.prgbank = int(val & 0b1111)
}

func (m *mmc1) remap() {
	switch m.prgmode {
	case 0, 1:
		// ignore low bit of bank number
		m.selectPRGPage32KB(m.prgbank >> 1)
	case 2:
		m.selectPRGPage16KB(0, 0)
		m.selectPRGPage16KB(1, m.prgbank)
	case 3:
		m.selectPRGPage16KB(0, m.prgbank)
		m.selectPRGPage16KB(1, -1)
	}

	switch m.chrmode {
	case 0:
		m.selectCHRPage8KB(m.chrbank0 >> 1)
	case 1:
		m.selectCHRPage4KB(0, m.chrbank0)
		m.selectCHRPage4KB(1, m.chrbank1)
	}
}

func loadMMC1(b *base) hw.Mapper {
	mmc1 := &mmc1{base: b}
	b.addPRGRAM()

	// On powerup: bits 2,3 of $8000 are set (this ensures the $8000 is bank 0,
	// and $C000 is the last bank - needed for SEROM/SHROM/SH1ROM which do no
	// support banking)
	mmc1.writeREG(0x8000, 0x0C)
	mmc1.writeREG(0xA000, 0)
	mmc1.writeREG(0xC000, 0)
	mmc1.writeREG(0xE000, 0)
	mmc1.remap()
	return mmc1
}
