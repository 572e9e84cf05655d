// Package snapshot holds plain copies of the console state, for inspection
// and debugging dumps. Snapshots are not used to restore a console.
package snapshot

type NES struct {
	Rom   string
	Frame uint64
	CPU   CPU
	PPU   PPU
	APU   APU
	RAM   [0x800]uint8
}

type CPU struct {
	PC uint16
	SP uint8
	P  uint8
	A  uint8
	X  uint8
	Y  uint8

	Cycles     int64
	NMIPending bool
}

type PPU struct {
	Palette [0x20]uint8
	OAMMem  [0x100]uint8

	// Sprites selected for the current scanline.
	OAM []Sprite

	OAMAddr    uint8
	VRAMAddr   uint16
	VRAMTemp   uint16
	FineX      uint8
	WriteLatch bool
	PPUDataBuf uint8

	PPUCTRL   uint8
	PPUMASK   uint8
	PPUSTATUS uint8

	Cycle      int
	Scanline   int
	FrameCount uint64
	OddFrame   bool
}

type Sprite struct {
	ID       uint8
	X        uint8
	Priority uint8
	Pattern  uint32
}

type APU struct {
	Length     [4]uint8
	Halt       [4]bool
	Enabled    [4]bool
	DMCEnabled bool
	Mode       int
	Cycle      int32
}
