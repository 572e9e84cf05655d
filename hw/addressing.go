package hw

type addrMode uint8

const (
	implied addrMode = iota
	accumulator
	immediate
	zeroPage
	zeroPageX
	zeroPageY
	absolute
	absoluteX
	absoluteY
	indirect
	indexedIndirect // (zp,X)
	indirectIndexed // (zp),Y
	relative
)

// size returns the encoded length of an instruction using that mode.
func (m addrMode) size() int {
	switch m {
	case implied, accumulator:
		return 1
	case absolute, absoluteX, absoluteY, indirect:
		return 3
	}
	return 2
}

func pagecrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// operand resolves the effective address of the instruction at PC. crossed
// reports whether indexing crossed a page boundary.
func (c *CPU) operand(mode addrMode) (addr uint16, crossed bool) {
	switch mode {
	case implied, accumulator:
		return 0, false
	case immediate:
		return c.PC + 1, false
	case zeroPage:
		return uint16(c.Read8(c.PC + 1)), false
	case zeroPageX:
		return uint16(c.Read8(c.PC+1) + c.X), false
	case zeroPageY:
		return uint16(c.Read8(c.PC+1) + c.Y), false
	case absolute:
		return c.Read16(c.PC + 1), false
	case absoluteX:
		base := c.Read16(c.PC + 1)
		addr = base + uint16(c.X)
		return addr, pagecrossed(base, addr)
	case absoluteY:
		base := c.Read16(c.PC + 1)
		addr = base + uint16(c.Y)
		return addr, pagecrossed(base, addr)
	case indirect:
		return c.read16bug(c.Read16(c.PC + 1)), false
	case indexedIndirect:
		return c.read16zp(c.Read8(c.PC+1) + c.X), false
	case indirectIndexed:
		base := c.read16zp(c.Read8(c.PC + 1))
		addr = base + uint16(c.Y)
		return addr, pagecrossed(base, addr)
	case relative:
		off := int8(c.Read8(c.PC + 1))
		return c.PC + 2 + uint16(off), false
	}
	panic("unreachable")
}
