package mappers

import "nescore/hw"

var CNROM = MapperDesc{
	Name: "CNROM",
	Load: loadCNROM,
}

type cnrom struct {
	*base

	chrbank int
}

func (m *cnrom) WritePRG(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.writeRAM(addr, val)
		return
	}

	// 7  bit  0
	// ---- ----
	// cccc ccCC
	// |||| ||||
	// ++++-++++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	// CNROM only uses lowest 2 bits
	prev := m.chrbank
	m.chrbank = int(val & 0b11)
	if prev != m.chrbank {
		m.selectCHRPage8KB(m.chrbank)
		modMapper.DebugZ("CHR bank switch").
			String("mapper", m.desc.Name).
			Int("prev", prev).
			Int("new", m.chrbank).
			End()
	}
}

func loadCNROM(b *base) hw.Mapper {
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	b.selectCHRPage8KB(0)
	return &cnrom{base: b}
}
