package mappers

import "nescore/hw"

var NROM = MapperDesc{
	Name: "NROM",
	Load: loadNROM,
}

type nrom struct {
	*base
}

func (m *nrom) WritePRG(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.writeRAM(addr, val)
		return
	}
	modMapper.WarnZ("write to PRG-ROM").
		String("mapper", m.desc.Name).
		Hex16("addr", addr).
		Hex8("val", val).
		End()
}

func loadNROM(b *base) hw.Mapper {
	// NROM-128 has a single 16KB bank mirrored at $C000.
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	b.selectCHRPage8KB(0)
	if b.rom.HasPersistent() {
		b.addPRGRAM()
	}
	return &nrom{base: b}
}
