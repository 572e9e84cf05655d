package mappers

import (
	"github.com/go-faster/errors"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/ines"
)

var modMapper = log.NewModule("mapper")

// ErrUnsupportedMapper is returned (wrapped) by New for mapper numbers without
// an implementation.
var ErrUnsupportedMapper = errors.New("unsupported mapper")

type MapperDesc struct {
	Name string
	Load func(*base) hw.Mapper
}

var All = map[uint16]MapperDesc{
	0: NROM,
	1: MMC1,
	2: UxROM,
	3: CNROM,
}

// New returns the mapper for the given cartridge.
func New(rom *ines.Rom) (hw.Mapper, error) {
	desc, ok := All[rom.Mapper()]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedMapper, "mapper %d", rom.Mapper())
	}
	if len(rom.PRG) == 0 || len(rom.PRG)%ines.PRGBankSize != 0 {
		return nil, errors.Wrapf(ines.ErrMalformedROM, "%s: PRG size %d", desc.Name, len(rom.PRG))
	}

	m := desc.Load(newbase(desc, rom))
	modMapper.InfoZ("mapper loaded").
		String("mapper", desc.Name).
		Int("prg", rom.PRGBanks()).
		Int("chr", rom.CHRBanks()).
		Stringer("mirroring", m.Mirroring()).
		End()
	return m, nil
}
