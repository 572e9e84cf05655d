package mappers

import (
	"nescore/hw/hwio"
	"nescore/ines"
)

const (
	prgPageSize = 0x4000
	chrPageSize = 0x1000
)

// base holds what all mappers share: the cartridge buffers, the offsets of
// the currently selected banks and the optional PRG-RAM at $6000-$7FFF.
type base struct {
	desc MapperDesc
	rom  *ines.Rom

	// Offsets in rom.PRG of the 16KB pages mapped at $8000 and $C000.
	prg [2]int
	// Offsets in rom.CHR of the 4KB pages mapped at $0000 and $1000.
	chr [2]int

	prgram *hwio.Mem // nil if absent
	ntm    ines.NTMirroring

	// Addresses of unmapped reads already logged as errors.
	badReads hwio.Bitset
}

func newbase(desc MapperDesc, rom *ines.Rom) *base {
	return &base{desc: desc, rom: rom, ntm: rom.Mirroring()}
}

func (b *base) Name() string { return b.desc.Name }

func (b *base) Mirroring() ines.NTMirroring { return b.ntm }

func (b *base) MapsCHR() bool { return len(b.rom.CHR) > 0 }

func (b *base) PRGRAM() []byte {
	if b.prgram == nil {
		return nil
	}
	return b.prgram.Data
}

func (b *base) setNTMirroring(m ines.NTMirroring) {
	if b.ntm != m {
		modMapper.DebugZ("select NT mirroring").
			String("mapper", b.desc.Name).
			Stringer("prev", b.ntm).
			Stringer("new", m).
			End()
	}
	b.ntm = m
}

func (b *base) addPRGRAM() {
	b.prgram = hwio.NewMem("PRGRAM", 0x2000, hwio.MemFlagReadWrite)
}

func (b *base) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		page := (addr - 0x8000) / prgPageSize
		return b.rom.PRG[b.prg[page]+int(addr&(prgPageSize-1))]
	case addr >= 0x6000 && b.prgram != nil:
		return b.prgram.Read8(addr)
	}
	logz := modMapper.DebugZ
	if !b.badReads.Test(addr) {
		b.badReads.Set(addr)
		logz = modMapper.ErrorZ
	}
	logz("read below PRG window").
		String("mapper", b.desc.Name).
		Hex16("addr", addr).
		End()
	return 0
}

// writeRAM handles CPU writes below $8000.
func (b *base) writeRAM(addr uint16, val uint8) {
	if addr >= 0x6000 && b.prgram != nil {
		b.prgram.Write8(addr, val)
		return
	}
	modMapper.WarnZ("write below PRG window").
		String("mapper", b.desc.Name).
		Hex16("addr", addr).
		Hex8("val", val).
		End()
}

func (b *base) ReadCHR(addr uint16) uint8 {
	page := (addr >> 12) & 1
	return b.rom.CHR[b.chr[page]+int(addr&(chrPageSize-1))]
}

func (b *base) WriteCHR(addr uint16, val uint8) {
	modMapper.WarnZ("write to CHR-ROM").
		String("mapper", b.desc.Name).
		Hex16("addr", addr).
		Hex8("val", val).
		End()
}

// bankIndex clamps bank to [0, count). A negative bank counts from the end:
// -1 is the last bank.
func bankIndex(bank, count int) int {
	bank %= count
	if bank < 0 {
		bank += count
	}
	return bank
}

// selectPRGPage16KB maps 16KB bank 'bank' at $8000 (slot 0) or $C000 (slot 1).
func (b *base) selectPRGPage16KB(slot, bank int) {
	count := len(b.rom.PRG) / prgPageSize
	b.prg[slot] = bankIndex(bank, count) * prgPageSize
}

// selectPRGPage32KB maps 32KB bank 'bank' at $8000-$FFFF.
func (b *base) selectPRGPage32KB(bank int) {
	b.selectPRGPage16KB(0, bank*2)
	b.selectPRGPage16KB(1, bank*2+1)
}

// selectCHRPage8KB maps 8KB bank 'bank' at $0000-$1FFF.
func (b *base) selectCHRPage8KB(bank int) {
	b.selectCHRPage4KB(0, bank*2)
	b.selectCHRPage4KB(1, bank*2+1)
}

// selectCHRPage4KB maps 4KB bank 'bank' at $0000 (slot 0) or $1000 (slot 1).
func (b *base) selectCHRPage4KB(slot, bank int) {
	count := len(b.rom.CHR) / chrPageSize
	if count == 0 {
		return
	}
	b.chr[slot] = bankIndex(bank, count) * chrPageSize
}
