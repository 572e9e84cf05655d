package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// dmaStaller is the CPU side of a DMA transfer: the CPU is halted while the
// transfer happens.
type dmaStaller interface {
	startOAMDMA()
}

// oamWriter is the PPU side of an OAM DMA transfer.
type oamWriter interface {
	WriteOAMData(val uint8)
}

// DMA handles the DMA transfer of OAM (sprites attributes) to the PPU, started
// by a write to $4014.
type DMA struct {
	OAMDMA hwio.Reg8

	bus hwio.BankIO8
	oam oamWriter
	cpu dmaStaller
}

func newDMA(bus hwio.BankIO8, oam oamWriter) *DMA {
	dma := &DMA{bus: bus, oam: oam}
	dma.OAMDMA = hwio.Reg8{
		Name:    "OAMDMA",
		Flags:   hwio.WriteOnlyFlag,
		WriteCb: dma.writeOAMDMA,
	}
	return dma
}

// The whole transfer happens at once; the CPU then pays for it in stall
// cycles at the end of the instruction that started it.
func (dma *DMA) writeOAMDMA(_, page uint8) {
	log.ModHwIo.DebugZ("OAM DMA transfer").Hex8("page", page).End()

	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		dma.oam.WriteOAMData(dma.bus.Read8(base + i))
	}
	if dma.cpu != nil {
		dma.cpu.startOAMDMA()
	}
}
