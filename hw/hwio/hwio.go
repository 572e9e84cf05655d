package hwio

// BankIO8 is implemented by anything that can be accessed on an 8-bit data
// bus with a 16-bit address.
type BankIO8 interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)

	// Peek8 is a Read8 without side effects (debugging/tracing).
	Peek8(addr uint16) uint8
}

// Read16 reads a little-endian word: low byte at addr, high byte at addr+1.
func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Peek16 is the side-effect free version of Read16.
func Peek16(b BankIO8, addr uint16) uint16 {
	lo := b.Peek8(addr)
	hi := b.Peek8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	lo := uint8(val & 0xff)
	hi := uint8(val >> 8)
	b.Write8(addr, lo)
	b.Write8(addr+1, hi)
}
