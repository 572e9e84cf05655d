// Package tests provides helpers shared by package tests: synthetic iNES
// images and hexdump loaders.
package tests

const (
	prgBankSize = 16 * 1024
	chrBankSize = 8 * 1024
)

// Rom describes a synthetic iNES image.
type Rom struct {
	Mapper   uint8
	PRGBanks int
	CHRBanks int
	Vertical bool // vertical nametable mirroring
	Battery  bool
	Trainer  bool
	PAL      bool

	// Reset is the value of the reset vector (at the end of the last PRG bank).
	Reset uint16
	// NMI is the value of the NMI vector.
	NMI uint16

	// Code is copied to each PRG bank at the given offset within the bank.
	Code map[uint16][]byte

	// Fill returns the byte at offset off of PRG bank bank, for banks without
	// explicit code. Defaults to each byte holding its bank number.
	Fill func(bank, off int) byte
}

// Build encodes the rom as an iNES image. Each CHR byte holds its 8KB bank
// number, so that CHR bank switching can be observed.
func (r Rom) Build() []byte {
	hdr := make([]byte, 16)
	copy(hdr, "NES\x1a")
	hdr[4] = uint8(r.PRGBanks)
	hdr[5] = uint8(r.CHRBanks)
	hdr[6] = r.Mapper << 4
	hdr[7] = r.Mapper & 0xF0
	if r.Vertical {
		hdr[6] |= 0x01
	}
	if r.Battery {
		hdr[6] |= 0x02
	}
	if r.Trainer {
		hdr[6] |= 0x04
	}
	if r.PAL {
		hdr[9] |= 0x01
	}

	buf := hdr
	if r.Trainer {
		buf = append(buf, make([]byte, 512)...)
	}

	fill := r.Fill
	if fill == nil {
		fill = func(bank, _ int) byte { return byte(bank) }
	}

	prg := make([]byte, r.PRGBanks*prgBankSize)
	for i := range prg {
		prg[i] = fill(i/prgBankSize, i%prgBankSize)
	}
	for bank := 0; bank < r.PRGBanks; bank++ {
		for off, code := range r.Code {
			copy(prg[bank*prgBankSize+int(off):], code)
		}
	}
	if n := len(prg); n >= 6 {
		prg[n-6], prg[n-5] = uint8(r.NMI), uint8(r.NMI>>8)
		prg[n-4], prg[n-3] = uint8(r.Reset), uint8(r.Reset>>8)
	}
	buf = append(buf, prg...)

	for bank := 0; bank < r.CHRBanks; bank++ {
		chr := make([]byte, chrBankSize)
		for i := range chr {
			chr[i] = byte(bank)
		}
		buf = append(buf, chr...)
	}
	return buf
}
