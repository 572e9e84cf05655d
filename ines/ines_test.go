package ines_test

import (
	"bytes"
	"testing"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/go-cmp/cmp"

	"nescore/ines"
	"nescore/tests"
)

func TestDecode(t *testing.T) {
	img := tests.Rom{Mapper: 2, PRGBanks: 4, CHRBanks: 0, Vertical: true, Battery: true}.Build()

	rom, err := ines.Decode(img)
	tests.Check(t, err)

	type infos struct {
		Mapper     uint16
		PRG, CHR   int
		PRGLen     int
		Mirroring  ines.NTMirroring
		Persistent bool
	}
	got := infos{
		Mapper:     rom.Mapper(),
		PRG:        rom.PRGBanks(),
		CHR:        rom.CHRBanks(),
		PRGLen:     len(rom.PRG),
		Mirroring:  rom.Mirroring(),
		Persistent: rom.HasPersistent(),
	}
	want := infos{
		Mapper:     2,
		PRG:        4,
		CHR:        0,
		PRGLen:     4 * ines.PRGBankSize,
		Mirroring:  ines.VertMirroring,
		Persistent: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rom infos mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFrom(t *testing.T) {
	img := tests.Rom{Mapper: 0, PRGBanks: 1, CHRBanks: 1}.Build()

	var rom ines.Rom
	n, err := rom.ReadFrom(bytes.NewReader(img))
	tests.Check(t, err)
	if n != int64(len(img)) {
		t.Errorf("ReadFrom = %d, want %d", n, len(img))
	}
	if len(rom.CHR) != ines.CHRBankSize {
		t.Errorf("CHR size = %d", len(rom.CHR))
	}
}

func TestDecodeMalformed(t *testing.T) {
	valid := tests.Rom{PRGBanks: 1, CHRBanks: 1}.Build()

	badMagic := bytes.Clone(valid)
	badMagic[3] = 0

	// Garbage in the padding bytes doesn't disable the region check.
	dirtyPAL := tests.Rom{PRGBanks: 1, PAL: true}.Build()
	dirtyPAL[15] = 'x'

	tcs := []struct {
		name string
		img  []byte
	}{
		{"bad magic", badMagic},
		{"short header", valid[:10]},
		{"truncated PRG", valid[:16+100]},
		{"truncated CHR", valid[:len(valid)-1]},
		{"trainer", tests.Rom{PRGBanks: 1, Trainer: true}.Build()},
		{"PAL", tests.Rom{PRGBanks: 1, PAL: true}.Build()},
		{"PAL with dirty header", dirtyPAL},
		{"DiskDude", diskDude(tests.Rom{PRGBanks: 1}.Build())},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ines.Decode(tc.img)
			if !errors.Is(err, ines.ErrMalformedROM) {
				t.Errorf("got err %v, want ErrMalformedROM", err)
			}
		})
	}
}

func TestMapperNumber(t *testing.T) {
	img := tests.Rom{Mapper: 0x42, PRGBanks: 1}.Build()
	rom, err := ines.Decode(img)
	tests.Check(t, err)
	if rom.Mapper() != 0x42 {
		t.Errorf("mapper = %d, want %d", rom.Mapper(), 0x42)
	}

	// Padding garbage doesn't change the mapper number.
	dirty := tests.Rom{Mapper: 0x40, PRGBanks: 1}.Build()
	dirty[15] = 'x'
	rom, err = ines.Decode(dirty)
	tests.Check(t, err)
	if rom.Mapper() != 0x40 {
		t.Errorf("dirty header mapper = %d, want %d", rom.Mapper(), 0x40)
	}
}

// diskDude overwrites bytes 7-15 the way some dumping tools did. Byte 9 then
// has its region bit set.
func diskDude(img []byte) []byte {
	img = bytes.Clone(img)
	copy(img[7:], "DiskDude!")
	return img
}

func TestFourScreen(t *testing.T) {
	img := tests.Rom{PRGBanks: 1}.Build()
	img[6] |= 0x08
	rom, err := ines.Decode(img)
	tests.Check(t, err)
	if rom.Mirroring() != ines.FourScreen {
		t.Errorf("mirroring = %s, want four-screen", rom.Mirroring())
	}
}

func TestEncodeJSON(t *testing.T) {
	rom, err := ines.Decode(tests.Rom{Mapper: 3, PRGBanks: 2, CHRBanks: 4}.Build())
	tests.Check(t, err)

	buf, err := rom.MarshalJSON()
	tests.Check(t, err)

	got := map[string]string{}
	d := jx.DecodeBytes(buf)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		got[key] = raw.String()
		return nil
	})
	tests.Check(t, err)

	want := map[string]string{
		"mapper":    "3",
		"prg_banks": "2",
		"chr_banks": "4",
		"prg_size":  "32768",
		"chr_size":  "32768",
		"mirroring": `"horizontal"`,
		"battery":   "false",
		"nes20":     "false",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}
}
