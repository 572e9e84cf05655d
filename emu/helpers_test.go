package emu

import (
	"os"
	"path/filepath"
	"testing"

	"nescore/emu/log"
	"nescore/ines"
	"nescore/tests"
)

func init() {
	log.Disable()
}

// writeRom writes a synthetic rom in a temporary directory and returns its
// path.
func writeRom(tb testing.TB, name string, r tests.Rom) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	tests.Check(tb, os.WriteFile(path, r.Build(), 0644))
	return path
}

func powerUpRom(tb testing.TB, r tests.Rom) *NES {
	tb.Helper()

	rom, err := ines.Decode(r.Build())
	tests.Check(tb, err)
	nes, err := PowerUp(rom)
	tests.Check(tb, err)
	return nes
}

// nmiCounter enables NMI then loops forever, its NMI handler increments $0200.
var nmiCounter = tests.Rom{
	PRGBanks: 1,
	CHRBanks: 1,
	Reset:    0x8000,
	NMI:      0x8010,
	Code: map[uint16][]byte{
		0x0000: {
			0x78,             // SEI
			0xa9, 0x80,       // LDA #$80
			0x8d, 0x00, 0x20, // STA $2000
			0x4c, 0x06, 0x80, // JMP $8006
		},
		0x0010: {
			0xee, 0x00, 0x02, // INC $0200
			0x40, // RTI
		},
	},
}

// padReader continuously polls controller 1 and stores the A button at $0300.
var padReader = tests.Rom{
	PRGBanks: 1,
	CHRBanks: 1,
	Reset:    0x8000,
	Code: map[uint16][]byte{
		0x0000: {
			0xa9, 0x01, // LDA #$01
			0x8d, 0x16, 0x40, // STA $4016
			0xa9, 0x00, // LDA #$00
			0x8d, 0x16, 0x40, // STA $4016
			0xad, 0x16, 0x40, // LDA $4016
			0x8d, 0x00, 0x03, // STA $0300
			0x4c, 0x00, 0x80, // JMP $8000
		},
	},
}

// batteryWriter increments $6000 then loops.
var batteryWriter = tests.Rom{
	PRGBanks: 1,
	CHRBanks: 1,
	Battery:  true,
	Reset:    0x8000,
	Code: map[uint16][]byte{
		0x0000: {
			0xee, 0x00, 0x60, // INC $6000
			0x4c, 0x03, 0x80, // JMP $8003
		},
	},
}

// crasher executes an unofficial opcode.
var crasher = tests.Rom{
	PRGBanks: 1,
	CHRBanks: 1,
	Reset:    0x8000,
	Code: map[uint16][]byte{
		0x0000: {
			0xea, // NOP
			0x02, // KIL
		},
	},
}
