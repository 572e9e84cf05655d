package ines

import "github.com/go-faster/jx"

// EncodeJSON writes the rom header informations as a JSON object.
func (rom *Rom) EncodeJSON(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("mapper")
	e.Int(int(rom.Mapper()))
	e.FieldStart("prg_banks")
	e.Int(rom.PRGBanks())
	e.FieldStart("chr_banks")
	e.Int(rom.CHRBanks())
	e.FieldStart("prg_size")
	e.Int(len(rom.PRG))
	e.FieldStart("chr_size")
	e.Int(len(rom.CHR))
	e.FieldStart("mirroring")
	e.Str(rom.Mirroring().String())
	e.FieldStart("battery")
	e.Bool(rom.HasPersistent())
	e.FieldStart("nes20")
	e.Bool(rom.IsNES20())
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler.
func (rom *Rom) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	rom.EncodeJSON(&e)
	return e.Bytes(), nil
}
