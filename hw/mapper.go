package hw

import "nescore/ines"

// Mapper translates CPU and PPU accesses into cartridge memory. It never
// executes: the Bus calls it for CPU addresses from $4018 upward, and the PPU
// calls it for pattern table accesses when MapsCHR reports true.
type Mapper interface {
	Name() string

	// ReadPRG must have no side effects, it is also used for peeks.
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, val uint8)

	// MapsCHR reports whether the mapper provides pattern tables ($0000-$1FFF
	// in PPU space). When it doesn't, the PPU uses its own 8KB CHR-RAM.
	MapsCHR() bool
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, val uint8)

	// Mirroring returns the current nametable mirroring.
	Mirroring() ines.NTMirroring
}

// BatteryBacked is implemented by mappers with persistent PRG-RAM.
type BatteryBacked interface {
	// PRGRAM returns the battery-backed memory. Modifying the returned slice
	// modifies the cartridge RAM.
	PRGRAM() []byte
}
