package mappers

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/go-cmp/cmp"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/ines"
	"nescore/tests"
)

func loadMapper(t *testing.T, r tests.Rom) hw.Mapper {
	t.Helper()

	rom, err := ines.Decode(r.Build())
	tests.Check(t, err)
	m, err := New(rom)
	tests.Check(t, err)
	return m
}

// prgBanks returns the banks visible at $8000 and $C000 (each PRG byte holds
// its bank number).
func prgBanks(m hw.Mapper) [2]uint8 {
	return [2]uint8{m.ReadPRG(0x8000), m.ReadPRG(0xC000)}
}

func TestUnsupportedMapper(t *testing.T) {
	for _, num := range []uint8{4, 7, 66} {
		rom, err := ines.Decode(tests.Rom{Mapper: num, PRGBanks: 2}.Build())
		tests.Check(t, err)

		_, err = New(rom)
		if !errors.Is(err, ErrUnsupportedMapper) {
			t.Errorf("mapper %d: got %v, want ErrUnsupportedMapper", num, err)
		}
	}
}

func TestNROMMirroring(t *testing.T) {
	m := loadMapper(t, tests.Rom{
		PRGBanks: 1,
		CHRBanks: 1,
		Fill:     func(_, off int) byte { return byte(off * 7) },
	})

	for k := uint16(0); k < 0x4000; k++ {
		if a, b := m.ReadPRG(0x8000+k), m.ReadPRG(0xC000+k); a != b {
			t.Fatalf("read(%04x) = %02x, read(%04x) = %02x", 0x8000+k, a, 0xC000+k, b)
		}
	}
	if !m.MapsCHR() {
		t.Errorf("NROM with CHR-ROM must map CHR")
	}
}

func TestNROM256(t *testing.T) {
	m := loadMapper(t, tests.Rom{PRGBanks: 2})
	if got := prgBanks(m); got != [2]uint8{0, 1} {
		t.Errorf("banks = %v, want [0 1]", got)
	}
	if m.MapsCHR() {
		t.Errorf("NROM without CHR-ROM must not map CHR")
	}
}

func TestNROMBattery(t *testing.T) {
	m := loadMapper(t, tests.Rom{PRGBanks: 1, Battery: true})
	m.WritePRG(0x6010, 0x5A)
	if got := m.ReadPRG(0x6010); got != 0x5A {
		t.Errorf("PRG-RAM read = %02x, want 5a", got)
	}
	if ram := m.(hw.BatteryBacked).PRGRAM(); len(ram) != 0x2000 || ram[0x10] != 0x5A {
		t.Errorf("PRGRAM() not backing $6000")
	}
}

func TestReadBelowWindow(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(io.Discard) })

	m := loadMapper(t, tests.Rom{PRGBanks: 1})
	for i := 0; i < 3; i++ {
		if got := m.ReadPRG(0x5000); got != 0 {
			t.Errorf("read below window = %02x, want 0", got)
		}
	}
	m.ReadPRG(0x5001)

	// One error per address, repeated reads don't flood the log.
	if n := strings.Count(buf.String(), "read below PRG window"); n != 2 {
		t.Errorf("logged %d errors, want 2:\n%s", n, buf.String())
	}
}

func TestUxROM(t *testing.T) {
	m := loadMapper(t, tests.Rom{Mapper: 2, PRGBanks: 8})

	if got := prgBanks(m); got != [2]uint8{0, 7} {
		t.Fatalf("power-up banks = %v, want [0 7]", got)
	}

	m.WritePRG(0x8000, 3)
	if got := prgBanks(m); got != [2]uint8{3, 7} {
		t.Errorf("banks = %v, want [3 7]", got)
	}

	// Bank index wraps around the actual bank count.
	m.WritePRG(0xFFFF, 13)
	if got := prgBanks(m); got != [2]uint8{5, 7} {
		t.Errorf("banks = %v, want [5 7]", got)
	}

	if m.MapsCHR() {
		t.Errorf("UxROM must not map CHR")
	}
}

func TestCNROM(t *testing.T) {
	m := loadMapper(t, tests.Rom{Mapper: 3, PRGBanks: 1, CHRBanks: 4})

	if got := prgBanks(m); got != [2]uint8{0, 0} {
		t.Errorf("banks = %v, want [0 0]", got)
	}

	for _, bank := range []uint8{2, 1, 3, 0} {
		m.WritePRG(0x8000, bank)
		if got := m.ReadCHR(0x0000); got != bank {
			t.Errorf("CHR bank %d: read $0000 = %d", bank, got)
		}
		if got := m.ReadCHR(0x1FFF); got != bank {
			t.Errorf("CHR bank %d: read $1fff = %d", bank, got)
		}
	}

	// Only 2 CHR banks: bank 3 wraps to bank 1.
	m = loadMapper(t, tests.Rom{Mapper: 3, PRGBanks: 1, CHRBanks: 2})
	m.WritePRG(0x8000, 3)
	if got := m.ReadCHR(0x0000); got != 1 {
		t.Errorf("CHR bank 3 of 2: read = %d, want 1", got)
	}
}

// mmc1Write shifts the 5 low bits of val into the MMC1 serial port at addr.
func mmc1Write(m hw.Mapper, addr uint16, val uint8) {
	for i := 0; i < 5; i++ {
		m.WritePRG(addr, (val>>i)&1)
	}
}

func TestMMC1PowerUp(t *testing.T) {
	m := loadMapper(t, tests.Rom{Mapper: 1, PRGBanks: 8, CHRBanks: 2})

	if got := prgBanks(m); got != [2]uint8{0, 7} {
		t.Errorf("power-up banks = %v, want [0 7]", got)
	}
	if m.Mirroring() != ines.OnlyAScreen {
		t.Errorf("mirroring = %s, want one-screen-low", m.Mirroring())
	}
}

func TestMMC1ShiftRegister(t *testing.T) {
	m := loadMapper(t, tests.Rom{Mapper: 1, PRGBanks: 8, CHRBanks: 2})

	// 4 writes do not commit anything.
	for i := 0; i < 4; i++ {
		m.WritePRG(0xE000, 1)
	}
	if got := prgBanks(m); got != [2]uint8{0, 7} {
		t.Fatalf("banks changed before 5th write: %v", got)
	}

	// 5th write commits 0b11111 & 0xF = 15 -> bank 15 % 8 = 7.
	m.WritePRG(0xE000, 1)
	if got := prgBanks(m); got != [2]uint8{7, 7} {
		t.Errorf("banks = %v, want [7 7]", got)
	}

	mmc1Write(m, 0xE000, 5)
	if got := prgBanks(m); got != [2]uint8{5, 7} {
		t.Errorf("banks = %v, want [5 7]", got)
	}
}

func TestMMC1Reset(t *testing.T) {
	m := loadMapper(t, tests.Rom{Mapper: 1, PRGBanks: 8})

	// 32KB mode, select 32KB bank 1 (16KB banks 2 and 3).
	mmc1Write(m, 0x8000, 0b00000)
	mmc1Write(m, 0xE000, 2)
	if got := prgBanks(m); got != [2]uint8{2, 3} {
		t.Fatalf("32KB mode banks = %v, want [2 3]", got)
	}

	// Partial write then reset: in-progress bits are discarded and PRG mode
	// goes back to fixed last bank.
	m.WritePRG(0x8000, 1)
	m.WritePRG(0x8000, 1)
	m.WritePRG(0x8000, 0x80)
	if got := prgBanks(m); got != [2]uint8{2, 7} {
		t.Errorf("after reset banks = %v, want [2 7]", got)
	}

	mmc1Write(m, 0xE000, 4)
	if got := prgBanks(m); got != [2]uint8{4, 7} {
		t.Errorf("banks = %v, want [4 7]", got)
	}
}

func TestMMC1FixedFirst(t *testing.T) {
	m := loadMapper(t, tests.Rom{Mapper: 1, PRGBanks: 8})

	mmc1Write(m, 0x8000, 0b01000) // PRG mode 2
	mmc1Write(m, 0xE000, 6)
	if got := prgBanks(m); got != [2]uint8{0, 6} {
		t.Errorf("banks = %v, want [0 6]", got)
	}
}

func TestMMC1Mirroring(t *testing.T) {
	m := loadMapper(t, tests.Rom{Mapper: 1, PRGBanks: 2})

	want := []ines.NTMirroring{
		ines.OnlyAScreen, ines.OnlyBScreen, ines.VertMirroring, ines.HorzMirroring,
	}
	var got []ines.NTMirroring
	for ntm := uint8(0); ntm < 4; ntm++ {
		mmc1Write(m, 0x9FFF, 0x0C|ntm)
		got = append(got, m.Mirroring())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mirroring mismatch (-want +got):\n%s", diff)
	}
}

func TestMMC1CHRBanks(t *testing.T) {
	m := loadMapper(t, tests.Rom{Mapper: 1, PRGBanks: 2, CHRBanks: 4})

	// 4KB CHR mode. CHR bytes hold their 8KB bank number, so 4KB bank n
	// reads as n/2.
	mmc1Write(m, 0x8000, 0b11100)
	mmc1Write(m, 0xA000, 5)
	mmc1Write(m, 0xC000, 2)
	if got := [2]uint8{m.ReadCHR(0x0000), m.ReadCHR(0x1000)}; got != [2]uint8{2, 1} {
		t.Errorf("4KB mode CHR = %v, want [2 1]", got)
	}

	// 8KB CHR mode: low bit of CHR0 is ignored.
	mmc1Write(m, 0x8000, 0b01100)
	mmc1Write(m, 0xA000, 7)
	if got := [2]uint8{m.ReadCHR(0x0000), m.ReadCHR(0x1000)}; got != [2]uint8{3, 3} {
		t.Errorf("8KB mode CHR = %v, want [3 3]", got)
	}
}

func TestMMC1WRAM(t *testing.T) {
	m := loadMapper(t, tests.Rom{Mapper: 1, PRGBanks: 2})

	m.WritePRG(0x7000, 0x42)
	if got := m.ReadPRG(0x7000); got != 0x42 {
		t.Fatalf("WRAM read = %02x, want 42", got)
	}

	mmc1Write(m, 0xE000, 0x10) // disable WRAM
	if got := m.ReadPRG(0x7000); got != 0 {
		t.Errorf("disabled WRAM read = %02x, want 0", got)
	}
}
