package mappers

import "nescore/hw"

var UxROM = MapperDesc{
	Name: "UxROM",
	Load: loadUxROM,
}

type uxrom struct {
	*base

	prgbank int
}

func (m *uxrom) WritePRG(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.writeRAM(addr, val)
		return
	}

	// 7  bit  0
	// ---- ----
	// xxxx pPPP
	//      ||||
	//      ++++- Select 16 KB PRG ROM bank for CPU $8000-$BFFF
	//            (UNROM uses bits 2-0; UOROM uses bits 3-0)
	prev := m.prgbank
	m.prgbank = int(val & 0x0F)
	if prev != m.prgbank {
		m.selectPRGPage16KB(0, m.prgbank)
		modMapper.DebugZ("PRG bank switch").
			String("mapper", m.desc.Name).
			Int("prev", prev).
			Int("new", m.prgbank).
			End()
	}
}

// UxROM boards always use CHR-RAM.
func (m *uxrom) MapsCHR() bool { return false }

func loadUxROM(b *base) hw.Mapper {
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	return &uxrom{base: b}
}
