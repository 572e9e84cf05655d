package hw

import "image/color"

func (p *PPU) render() {
	if !p.renderingEnabled() {
		if p.Scanline >= 0 && p.Cycle >= 1 && p.Cycle <= ScreenWidth {
			p.renderBackdrop()
		}
		return
	}

	preLine := p.Scanline == -1
	visibleLine := p.Scanline >= 0
	visibleCycle := p.Cycle >= 1 && p.Cycle <= 256
	prefetchCycle := p.Cycle >= 321 && p.Cycle <= 336
	fetchCycle := visibleCycle || prefetchCycle

	if visibleLine && visibleCycle {
		p.renderPixel()
	}

	if fetchCycle {
		p.tileData <<= 4
		switch p.Cycle % 8 {
		case 1:
			p.fetchNametableByte()
		case 3:
			p.fetchAttributeByte()
		case 5:
			p.fetchLowTileByte()
		case 7:
			p.fetchHighTileByte()
		case 0:
			p.storeTileData()
		}
	}

	if preLine && p.Cycle >= 280 && p.Cycle <= 304 {
		p.copyY()
	}
	if fetchCycle && p.Cycle%8 == 0 {
		p.incrementX()
	}
	if p.Cycle == 256 {
		p.incrementY()
	}
	if p.Cycle == 257 {
		p.copyX()
		if visibleLine {
			p.evaluateSprites()
		} else {
			p.spriteCount = 0
		}
	}
}

/* loopy v increments */

func (p *PPU) incrementX() {
	// Coarse X wraps at 31 and switches the horizontal nametable.
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}

	// Fine Y overflows into coarse Y.
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | y<<5
}

func (p *PPU) copyX() {
	p.v = (p.v & 0xFBE0) | (p.t & 0x041F)
}

func (p *PPU) copyY() {
	p.v = (p.v & 0x841F) | (p.t & 0x7BE0)
}

/* background fetches */

func (p *PPU) fetchNametableByte() {
	p.ntByte = p.read(0x2000 | p.v&0x0FFF)
}

func (p *PPU) fetchAttributeByte() {
	v := p.v
	addr := 0x23C0 | v&0x0C00 | (v>>4)&0x38 | (v>>2)&0x07
	shift := ((v >> 4) & 4) | (v & 2)
	p.atByte = ((p.read(addr) >> shift) & 3) << 2
}

func (p *PPU) bgPatternAddr() uint16 {
	fineY := (p.v >> 12) & 7
	base := uint16(0)
	if p.PPUCTRL.GetBit(backgroundAddr) {
		base = 0x1000
	}
	return base + uint16(p.ntByte)*16 + fineY
}

func (p *PPU) fetchLowTileByte() {
	p.lowTile = p.read(p.bgPatternAddr())
}

func (p *PPU) fetchHighTileByte() {
	p.highTile = p.read(p.bgPatternAddr() + 8)
}

func (p *PPU) storeTileData() {
	var data uint32
	for i := 0; i < 8; i++ {
		a := p.atByte
		p1 := (p.lowTile & 0x80) >> 7
		p2 := (p.highTile & 0x80) >> 6
		p.lowTile <<= 1
		p.highTile <<= 1
		data <<= 4
		data |= uint32(a | p1 | p2)
	}
	p.tileData |= uint64(data)
}

func (p *PPU) backgroundPixel() uint8 {
	if !p.PPUMASK.GetBit(showBg) {
		return 0
	}
	data := uint32(p.tileData>>32) >> ((7 - p.x) * 4)
	return uint8(data & 0x0F)
}

/* sprites */

func (p *PPU) spriteHeight() int {
	if p.PPUCTRL.GetBit(spriteSize) {
		return 16
	}
	return 8
}

// evaluateSprites selects the first 8 sprites in OAM order that are on the
// next scanline and sets the overflow flag if there are more.
func (p *PPU) evaluateSprites() {
	h := p.spriteHeight()
	count := 0
	for i := 0; i < 64; i++ {
		y := p.OAM[i*4]
		a := p.OAM[i*4+2]
		x := p.OAM[i*4+3]
		row := p.Scanline - int(y)
		if row < 0 || row >= h {
			continue
		}
		if count < 8 {
			p.spritePatterns[count] = p.fetchSpritePattern(i, row)
			p.spritePositions[count] = x
			p.spritePriorities[count] = (a >> 5) & 1
			p.spriteIndexes[count] = uint8(i)
		}
		count++
	}
	if count > 8 {
		count = 8
		p.PPUSTATUS.SetBit(spriteOverflow)
	}
	p.spriteCount = count
}

func (p *PPU) fetchSpritePattern(i, row int) uint32 {
	tile := p.OAM[i*4+1]
	attr := p.OAM[i*4+2]

	var addr uint16
	if p.spriteHeight() == 8 {
		if attr&0x80 != 0 {
			row = 7 - row
		}
		base := uint16(0)
		if p.PPUCTRL.GetBit(spriteAddr) {
			base = 0x1000
		}
		addr = base + uint16(tile)*16 + uint16(row)
	} else {
		if attr&0x80 != 0 {
			row = 15 - row
		}
		// 8x16 sprites take the pattern table from bit 0 of the tile index.
		base := 0x1000 * uint16(tile&1)
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		addr = base + uint16(tile)*16 + uint16(row)
	}

	a := (attr & 3) << 2
	lo := p.read(addr)
	hi := p.read(addr + 8)

	var data uint32
	for i := 0; i < 8; i++ {
		var p1, p2 uint8
		if attr&0x40 != 0 {
			// Horizontal flip.
			p1 = lo & 1
			p2 = (hi & 1) << 1
			lo >>= 1
			hi >>= 1
		} else {
			p1 = (lo & 0x80) >> 7
			p2 = (hi & 0x80) >> 6
			lo <<= 1
			hi <<= 1
		}
		data <<= 4
		data |= uint32(a | p1 | p2)
	}
	return data
}

func (p *PPU) spritePixel() (idx int, pix uint8) {
	if !p.PPUMASK.GetBit(showSprites) {
		return 0, 0
	}
	for i := 0; i < p.spriteCount; i++ {
		off := (p.Cycle - 1) - int(p.spritePositions[i])
		if off < 0 || off > 7 {
			continue
		}
		off = 7 - off
		c := uint8((p.spritePatterns[i] >> uint(off*4)) & 0x0F)
		if c%4 == 0 {
			continue
		}
		return i, c
	}
	return 0, 0
}

/* pixel output */

func (p *PPU) renderPixel() {
	x := p.Cycle - 1
	y := p.Scanline

	bg := p.backgroundPixel()
	i, sprite := p.spritePixel()
	if x < 8 && !p.PPUMASK.GetBit(leftmostBg) {
		bg = 0
	}
	if x < 8 && !p.PPUMASK.GetBit(leftmostSprites) {
		sprite = 0
	}

	b := bg%4 != 0
	s := sprite%4 != 0

	var c uint8
	switch {
	case !b && !s:
		c = 0
	case !b && s:
		c = sprite | 0x10
	case b && !s:
		c = bg
	default:
		if p.spriteIndexes[i] == 0 && x < 255 {
			p.PPUSTATUS.SetBit(sprite0Hit)
		}
		if p.spritePriorities[i] == 0 {
			c = sprite | 0x10
		} else {
			c = bg
		}
	}

	p.back.SetRGBA(x, y, p.color(c))
}

func (p *PPU) renderBackdrop() {
	p.back.SetRGBA(p.Cycle-1, p.Scanline, p.color(0))
}

func (p *PPU) color(idx uint8) color.RGBA {
	c := p.Palettes[paletteAddr(uint16(idx))] & 0x3F
	if p.PPUMASK.GetBit(greyscale) {
		c &= 0x30
	}
	return Palette[c]
}
