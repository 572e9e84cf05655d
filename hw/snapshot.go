package hw

import "nescore/hw/snapshot"

func (c *CPU) Snapshot() snapshot.CPU {
	return snapshot.CPU{
		PC:         c.PC,
		SP:         c.SP,
		P:          uint8(c.P),
		A:          c.A,
		X:          c.X,
		Y:          c.Y,
		Cycles:     c.Cycles,
		NMIPending: c.nmiPending,
	}
}

func (p *PPU) Snapshot() snapshot.PPU {
	s := snapshot.PPU{
		Palette:    p.Palettes,
		OAMMem:     p.OAM,
		OAMAddr:    p.OAMADDR.Value,
		VRAMAddr:   p.v,
		VRAMTemp:   p.t,
		FineX:      p.x,
		WriteLatch: p.writeLatch,
		PPUDataBuf: p.ppuDataRbuf,
		PPUCTRL:    p.PPUCTRL.Value,
		PPUMASK:    p.PPUMASK.Value,
		PPUSTATUS:  p.PPUSTATUS.Value,
		Cycle:      p.Cycle,
		Scanline:   p.Scanline,
		FrameCount: p.Frame,
		OddFrame:   p.oddFrame,
	}
	for i, count := 0, p.spriteCount; i < count; i++ {
		s.OAM = append(s.OAM, snapshot.Sprite{
			ID:       p.spriteIndexes[i],
			X:        p.spritePositions[i],
			Priority: p.spritePriorities[i],
			Pattern:  p.spritePatterns[i],
		})
	}
	return s
}

func (a *APU) Snapshot() snapshot.APU {
	return snapshot.APU{
		Length:     a.length,
		Halt:       a.halt,
		Enabled:    a.enabled,
		DMCEnabled: a.dmcEnabled,
		Mode:       a.mode,
		Cycle:      a.cycle,
	}
}
