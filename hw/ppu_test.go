package hw

import (
	"image/color"
	"testing"

	"nescore/ines"
)

func newTestPPU(mir ines.NTMirroring) (*PPU, *nmiCounter) {
	var nmis nmiCounter
	ppu := NewPPU(&fakeCart{mir: mir})
	ppu.NMI = &nmis
	return ppu, &nmis
}

// runFrame ticks the PPU until the frame counter increments and returns the
// number of dots.
func runFrame(p *PPU) int {
	frame := p.Frame
	n := 0
	for p.Frame == frame {
		p.Tick()
		n++
	}
	return n
}

func TestFrameLength(t *testing.T) {
	ppu, _ := newTestPPU(ines.HorzMirroring)

	if got, want := runFrame(ppu), NumScanlines*NumCycles; got != want {
		t.Errorf("even frame: %d dots, want %d", got, want)
	}
	if !ppu.OddFrame() {
		t.Errorf("second frame should be odd")
	}
	if got, want := runFrame(ppu), NumScanlines*NumCycles-1; got != want {
		t.Errorf("odd frame: %d dots, want %d", got, want)
	}
	if ppu.OddFrame() {
		t.Errorf("third frame should be even")
	}
	if sl, dot := ppu.Position(); sl != -1 || dot != 0 {
		t.Errorf("Position() = %d,%d, want -1,0", sl, dot)
	}
}

func TestVBlankNMI(t *testing.T) {
	ppu, nmis := newTestPPU(ines.HorzMirroring)

	// NMI disabled: vblank flag is set but no NMI.
	runFrame(ppu)
	if *nmis != 0 {
		t.Fatalf("got %d NMIs with PPUCTRL.7 clear", *nmis)
	}

	ppu.WriteReg(0x2000, 0x80)
	for *nmis == 0 {
		ppu.Tick()
		if ppu.Frame > 2 {
			t.Fatal("no NMI")
		}
	}
	if sl, dot := ppu.Position(); sl != 241 || dot != 2 {
		t.Errorf("NMI raised at %d,%d, want 241,1", sl, dot-1)
	}

	status := ppu.ReadReg(0x2002)
	if status&0x80 == 0 {
		t.Errorf("PPUSTATUS = %02x, vblank should be set", status)
	}
	if status := ppu.ReadReg(0x2002); status&0x80 != 0 {
		t.Errorf("PPUSTATUS = %02x, vblank should be cleared by the read", status)
	}

	// Exactly one NMI per frame.
	runFrame(ppu)
	runFrame(ppu)
	if *nmis != 2 {
		t.Errorf("got %d NMIs, want 2", *nmis)
	}
}

func TestVBlankClearedOnPreRender(t *testing.T) {
	ppu, _ := newTestPPU(ines.HorzMirroring)
	for ppu.Scanline != 241 || ppu.Cycle != 2 {
		ppu.Tick()
	}
	if !ppu.PPUSTATUS.GetBit(vblank) {
		t.Fatal("vblank should be set")
	}
	for ppu.Scanline != -1 || ppu.Cycle != 2 {
		ppu.Tick()
	}
	if ppu.PPUSTATUS.GetBit(vblank) {
		t.Error("vblank should be cleared")
	}
}

func setVRAMAddr(p *PPU, addr uint16) {
	p.WriteReg(0x2006, uint8(addr>>8))
	p.WriteReg(0x2006, uint8(addr))
}

func TestPPUDATA(t *testing.T) {
	ppu, _ := newTestPPU(ines.VertMirroring)

	setVRAMAddr(ppu, 0x2108)
	ppu.WriteReg(0x2007, 0xAB)
	ppu.WriteReg(0x2007, 0xCD)

	// Reads below the palette are buffered.
	setVRAMAddr(ppu, 0x2108)
	ppu.ReadReg(0x2007)
	if got := ppu.ReadReg(0x2007); got != 0xAB {
		t.Errorf("first read = %02x, want AB", got)
	}
	if got := ppu.ReadReg(0x2007); got != 0xCD {
		t.Errorf("second read = %02x, want CD", got)
	}

	// Vertical mirroring: $2800 mirrors $2000.
	setVRAMAddr(ppu, 0x2908)
	ppu.ReadReg(0x2007)
	if got := ppu.ReadReg(0x2007); got != 0xAB {
		t.Errorf("mirrored read = %02x, want AB", got)
	}
}

func TestPPUDATAIncrement32(t *testing.T) {
	ppu, _ := newTestPPU(ines.HorzMirroring)

	ppu.WriteReg(0x2000, 0x04)
	setVRAMAddr(ppu, 0x2000)
	ppu.WriteReg(0x2007, 0x11)
	ppu.WriteReg(0x2007, 0x22)

	if got := ppu.read(0x2020); got != 0x22 {
		t.Errorf("VRAM[$2020] = %02x, want 22", got)
	}
	if ppu.v != 0x2040 {
		t.Errorf("v = %04x, want 2040", ppu.v)
	}
}

func TestNametableMirroring(t *testing.T) {
	tests := []struct {
		mir  ines.NTMirroring
		want [4]uint16 // physical table of $2000, $2400, $2800, $2C00
	}{
		{ines.HorzMirroring, [4]uint16{0, 0, 1, 1}},
		{ines.VertMirroring, [4]uint16{0, 1, 0, 1}},
		{ines.OnlyAScreen, [4]uint16{0, 0, 0, 0}},
		{ines.OnlyBScreen, [4]uint16{1, 1, 1, 1}},
		{ines.FourScreen, [4]uint16{0, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.mir.String(), func(t *testing.T) {
			ppu, _ := newTestPPU(tt.mir)
			for i, table := range tt.want {
				addr := 0x2000 + uint16(i)*0x400 + 0x15
				if got, want := ppu.ntAddr(addr), table*0x400+0x15; got != want {
					t.Errorf("ntAddr(%04x) = %04x, want %04x", addr, got, want)
				}
				// $3000-$3EFF mirrors $2000-$2EFF.
				if got, want := ppu.ntAddr(addr+0x1000), table*0x400+0x15; got != want {
					t.Errorf("ntAddr(%04x) = %04x, want %04x", addr+0x1000, got, want)
				}
			}
		})
	}
}

func TestPaletteMirrors(t *testing.T) {
	ppu, _ := newTestPPU(ines.HorzMirroring)

	for _, addr := range []uint16{0x3F10, 0x3F14, 0x3F18, 0x3F1C} {
		setVRAMAddr(ppu, addr)
		ppu.WriteReg(0x2007, uint8(addr&0x1F)+1)

		// Palette reads are not buffered.
		setVRAMAddr(ppu, addr-0x10)
		if got, want := ppu.ReadReg(0x2007), uint8(addr&0x1F)+1; got != want {
			t.Errorf("palette[%04x] = %02x, want %02x", addr-0x10, got, want)
		}
	}

	// $3F20-$3FFF mirrors $3F00-$3F1F.
	setVRAMAddr(ppu, 0x3F25)
	ppu.WriteReg(0x2007, 0x30)
	if got := ppu.Palettes[5]; got != 0x30 {
		t.Errorf("palette[5] = %02x, want 30", got)
	}
}

func TestScrollRegisters(t *testing.T) {
	ppu, _ := newTestPPU(ines.HorzMirroring)

	ppu.WriteReg(0x2000, 0x02) // nametable $2800
	ppu.WriteReg(0x2005, 0x7D) // X = 125
	ppu.WriteReg(0x2005, 0x5E) // Y = 94

	if ppu.x != 5 {
		t.Errorf("fine x = %d, want 5", ppu.x)
	}
	// yyy NN YYYYY XXXXX
	if want := uint16(0b110_10_01011_01111); ppu.t != want {
		t.Errorf("t = %015b, want %015b", ppu.t, want)
	}

	// Reading PPUSTATUS resets the write toggle.
	ppu.WriteReg(0x2005, 0x00)
	ppu.ReadReg(0x2002)
	ppu.WriteReg(0x2005, 0x08)
	if ppu.t&0x1F != 1 {
		t.Errorf("coarse x = %d, want 1", ppu.t&0x1F)
	}
}

func TestOAMData(t *testing.T) {
	ppu, _ := newTestPPU(ines.HorzMirroring)

	ppu.WriteReg(0x2003, 0xFE)
	ppu.WriteReg(0x2004, 0x11)
	ppu.WriteReg(0x2004, 0x22)
	ppu.WriteReg(0x2004, 0x33)

	if ppu.OAM[0xFE] != 0x11 || ppu.OAM[0xFF] != 0x22 || ppu.OAM[0x00] != 0x33 {
		t.Errorf("OAM writes don't wrap: %02x %02x %02x", ppu.OAM[0xFE], ppu.OAM[0xFF], ppu.OAM[0x00])
	}

	ppu.WriteReg(0x2003, 0xFF)
	if got := ppu.ReadReg(0x2004); got != 0x22 {
		t.Errorf("OAMDATA read = %02x, want 22", got)
	}
}

func TestBackdrop(t *testing.T) {
	ppu, _ := newTestPPU(ines.HorzMirroring)

	setVRAMAddr(ppu, 0x3F00)
	ppu.WriteReg(0x2007, 0x21)

	// Rendering is disabled: the whole frame is the backdrop color.
	runFrame(ppu)
	runFrame(ppu)

	want := Palette[0x21]
	img := ppu.Output()
	for _, pt := range [][2]int{{0, 0}, {128, 120}, {255, 239}} {
		if got := img.RGBAAt(pt[0], pt[1]); got != want {
			t.Errorf("pixel %v = %v, want %v", pt, got, want)
		}
	}
}

func TestPaletteColors(t *testing.T) {
	if Palette[0x0F] != (color.RGBA{A: 0xFF}) {
		t.Errorf("color $0F should be black, got %v", Palette[0x0F])
	}
	if Palette[0x30] != (color.RGBA{R: 0xFC, G: 0xFC, B: 0xFC, A: 0xFF}) {
		t.Errorf("color $30 should be white, got %v", Palette[0x30])
	}
}
