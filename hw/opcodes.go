package hw

type opcode struct {
	name    string
	mode    addrMode
	cycles  uint8
	penalty bool // +1 cycle when indexing crosses a page
	exec    func(c *CPU, addr uint16)
}

// ops maps each opcode byte to its handler. Only the 151 official opcodes
// are defined, a nil exec means the opcode is not implemented.
var ops = [256]opcode{
	0x69: {"ADC", immediate, 2, false, ADC},
	0x65: {"ADC", zeroPage, 3, false, ADC},
	0x75: {"ADC", zeroPageX, 4, false, ADC},
	0x6D: {"ADC", absolute, 4, false, ADC},
	0x7D: {"ADC", absoluteX, 4, true, ADC},
	0x79: {"ADC", absoluteY, 4, true, ADC},
	0x61: {"ADC", indexedIndirect, 6, false, ADC},
	0x71: {"ADC", indirectIndexed, 5, true, ADC},

	0x29: {"AND", immediate, 2, false, AND},
	0x25: {"AND", zeroPage, 3, false, AND},
	0x35: {"AND", zeroPageX, 4, false, AND},
	0x2D: {"AND", absolute, 4, false, AND},
	0x3D: {"AND", absoluteX, 4, true, AND},
	0x39: {"AND", absoluteY, 4, true, AND},
	0x21: {"AND", indexedIndirect, 6, false, AND},
	0x31: {"AND", indirectIndexed, 5, true, AND},

	0x0A: {"ASL", accumulator, 2, false, ASLacc},
	0x06: {"ASL", zeroPage, 5, false, ASL},
	0x16: {"ASL", zeroPageX, 6, false, ASL},
	0x0E: {"ASL", absolute, 6, false, ASL},
	0x1E: {"ASL", absoluteX, 7, false, ASL},

	0x90: {"BCC", relative, 2, false, BCC},
	0xB0: {"BCS", relative, 2, false, BCS},
	0xF0: {"BEQ", relative, 2, false, BEQ},
	0x30: {"BMI", relative, 2, false, BMI},
	0xD0: {"BNE", relative, 2, false, BNE},
	0x10: {"BPL", relative, 2, false, BPL},
	0x50: {"BVC", relative, 2, false, BVC},
	0x70: {"BVS", relative, 2, false, BVS},

	0x24: {"BIT", zeroPage, 3, false, BIT},
	0x2C: {"BIT", absolute, 4, false, BIT},

	0x00: {"BRK", implied, 7, false, BRK},

	0x18: {"CLC", implied, 2, false, CLC},
	0xD8: {"CLD", implied, 2, false, CLD},
	0x58: {"CLI", implied, 2, false, CLI},
	0xB8: {"CLV", implied, 2, false, CLV},

	0xC9: {"CMP", immediate, 2, false, CMP},
	0xC5: {"CMP", zeroPage, 3, false, CMP},
	0xD5: {"CMP", zeroPageX, 4, false, CMP},
	0xCD: {"CMP", absolute, 4, false, CMP},
	0xDD: {"CMP", absoluteX, 4, true, CMP},
	0xD9: {"CMP", absoluteY, 4, true, CMP},
	0xC1: {"CMP", indexedIndirect, 6, false, CMP},
	0xD1: {"CMP", indirectIndexed, 5, true, CMP},

	0xE0: {"CPX", immediate, 2, false, CPX},
	0xE4: {"CPX", zeroPage, 3, false, CPX},
	0xEC: {"CPX", absolute, 4, false, CPX},

	0xC0: {"CPY", immediate, 2, false, CPY},
	0xC4: {"CPY", zeroPage, 3, false, CPY},
	0xCC: {"CPY", absolute, 4, false, CPY},

	0xC6: {"DEC", zeroPage, 5, false, DEC},
	0xD6: {"DEC", zeroPageX, 6, false, DEC},
	0xCE: {"DEC", absolute, 6, false, DEC},
	0xDE: {"DEC", absoluteX, 7, false, DEC},

	0xCA: {"DEX", implied, 2, false, DEX},
	0x88: {"DEY", implied, 2, false, DEY},

	0x49: {"EOR", immediate, 2, false, EOR},
	0x45: {"EOR", zeroPage, 3, false, EOR},
	0x55: {"EOR", zeroPageX, 4, false, EOR},
	0x4D: {"EOR", absolute, 4, false, EOR},
	0x5D: {"EOR", absoluteX, 4, true, EOR},
	0x59: {"EOR", absoluteY, 4, true, EOR},
	0x41: {"EOR", indexedIndirect, 6, false, EOR},
	0x51: {"EOR", indirectIndexed, 5, true, EOR},

	0xE6: {"INC", zeroPage, 5, false, INC},
	0xF6: {"INC", zeroPageX, 6, false, INC},
	0xEE: {"INC", absolute, 6, false, INC},
	0xFE: {"INC", absoluteX, 7, false, INC},

	0xE8: {"INX", implied, 2, false, INX},
	0xC8: {"INY", implied, 2, false, INY},

	0x4C: {"JMP", absolute, 3, false, JMP},
	0x6C: {"JMP", indirect, 5, false, JMP},
	0x20: {"JSR", absolute, 6, false, JSR},

	0xA9: {"LDA", immediate, 2, false, LDA},
	0xA5: {"LDA", zeroPage, 3, false, LDA},
	0xB5: {"LDA", zeroPageX, 4, false, LDA},
	0xAD: {"LDA", absolute, 4, false, LDA},
	0xBD: {"LDA", absoluteX, 4, true, LDA},
	0xB9: {"LDA", absoluteY, 4, true, LDA},
	0xA1: {"LDA", indexedIndirect, 6, false, LDA},
	0xB1: {"LDA", indirectIndexed, 5, true, LDA},

	0xA2: {"LDX", immediate, 2, false, LDX},
	0xA6: {"LDX", zeroPage, 3, false, LDX},
	0xB6: {"LDX", zeroPageY, 4, false, LDX},
	0xAE: {"LDX", absolute, 4, false, LDX},
	0xBE: {"LDX", absoluteY, 4, true, LDX},

	0xA0: {"LDY", immediate, 2, false, LDY},
	0xA4: {"LDY", zeroPage, 3, false, LDY},
	0xB4: {"LDY", zeroPageX, 4, false, LDY},
	0xAC: {"LDY", absolute, 4, false, LDY},
	0xBC: {"LDY", absoluteX, 4, true, LDY},

	0x4A: {"LSR", accumulator, 2, false, LSRacc},
	0x46: {"LSR", zeroPage, 5, false, LSR},
	0x56: {"LSR", zeroPageX, 6, false, LSR},
	0x4E: {"LSR", absolute, 6, false, LSR},
	0x5E: {"LSR", absoluteX, 7, false, LSR},

	0xEA: {"NOP", implied, 2, false, NOP},

	0x09: {"ORA", immediate, 2, false, ORA},
	0x05: {"ORA", zeroPage, 3, false, ORA},
	0x15: {"ORA", zeroPageX, 4, false, ORA},
	0x0D: {"ORA", absolute, 4, false, ORA},
	0x1D: {"ORA", absoluteX, 4, true, ORA},
	0x19: {"ORA", absoluteY, 4, true, ORA},
	0x01: {"ORA", indexedIndirect, 6, false, ORA},
	0x11: {"ORA", indirectIndexed, 5, true, ORA},

	0x48: {"PHA", implied, 3, false, PHA},
	0x08: {"PHP", implied, 3, false, PHP},
	0x68: {"PLA", implied, 4, false, PLA},
	0x28: {"PLP", implied, 4, false, PLP},

	0x2A: {"ROL", accumulator, 2, false, ROLacc},
	0x26: {"ROL", zeroPage, 5, false, ROL},
	0x36: {"ROL", zeroPageX, 6, false, ROL},
	0x2E: {"ROL", absolute, 6, false, ROL},
	0x3E: {"ROL", absoluteX, 7, false, ROL},

	0x6A: {"ROR", accumulator, 2, false, RORacc},
	0x66: {"ROR", zeroPage, 5, false, ROR},
	0x76: {"ROR", zeroPageX, 6, false, ROR},
	0x6E: {"ROR", absolute, 6, false, ROR},
	0x7E: {"ROR", absoluteX, 7, false, ROR},

	0x40: {"RTI", implied, 6, false, RTI},
	0x60: {"RTS", implied, 6, false, RTS},

	0xE9: {"SBC", immediate, 2, false, SBC},
	0xE5: {"SBC", zeroPage, 3, false, SBC},
	0xF5: {"SBC", zeroPageX, 4, false, SBC},
	0xED: {"SBC", absolute, 4, false, SBC},
	0xFD: {"SBC", absoluteX, 4, true, SBC},
	0xF9: {"SBC", absoluteY, 4, true, SBC},
	0xE1: {"SBC", indexedIndirect, 6, false, SBC},
	0xF1: {"SBC", indirectIndexed, 5, true, SBC},

	0x38: {"SEC", implied, 2, false, SEC},
	0xF8: {"SED", implied, 2, false, SED},
	0x78: {"SEI", implied, 2, false, SEI},

	0x85: {"STA", zeroPage, 3, false, STA},
	0x95: {"STA", zeroPageX, 4, false, STA},
	0x8D: {"STA", absolute, 4, false, STA},
	0x9D: {"STA", absoluteX, 5, false, STA},
	0x99: {"STA", absoluteY, 5, false, STA},
	0x81: {"STA", indexedIndirect, 6, false, STA},
	0x91: {"STA", indirectIndexed, 6, false, STA},

	0x86: {"STX", zeroPage, 3, false, STX},
	0x96: {"STX", zeroPageY, 4, false, STX},
	0x8E: {"STX", absolute, 4, false, STX},

	0x84: {"STY", zeroPage, 3, false, STY},
	0x94: {"STY", zeroPageX, 4, false, STY},
	0x8C: {"STY", absolute, 4, false, STY},

	0xAA: {"TAX", implied, 2, false, TAX},
	0xA8: {"TAY", implied, 2, false, TAY},
	0xBA: {"TSX", implied, 2, false, TSX},
	0x8A: {"TXA", implied, 2, false, TXA},
	0x9A: {"TXS", implied, 2, false, TXS},
	0x98: {"TYA", implied, 2, false, TYA},
}

/* arithmetic */

func add(c *CPU, val uint8) {
	carry := uint16(c.P & Carry)
	sum := uint16(c.A) + uint16(val) + carry
	c.P.checkCV(c.A, val, sum)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

// ADC and SBC ignore the decimal flag, the 2A03 has no BCD mode.
func ADC(c *CPU, addr uint16) {
	add(c, c.Read8(addr))
}

func SBC(c *CPU, addr uint16) {
	add(c, ^c.Read8(addr))
}

func compare(c *CPU, reg, val uint8) {
	c.P = c.P.SetCarry(reg >= val)
	c.P.checkNZ(reg - val)
}

func CMP(c *CPU, addr uint16) { compare(c, c.A, c.Read8(addr)) }
func CPX(c *CPU, addr uint16) { compare(c, c.X, c.Read8(addr)) }
func CPY(c *CPU, addr uint16) { compare(c, c.Y, c.Read8(addr)) }

/* logic */

func AND(c *CPU, addr uint16) {
	c.A &= c.Read8(addr)
	c.P.checkNZ(c.A)
}

func ORA(c *CPU, addr uint16) {
	c.A |= c.Read8(addr)
	c.P.checkNZ(c.A)
}

func EOR(c *CPU, addr uint16) {
	c.A ^= c.Read8(addr)
	c.P.checkNZ(c.A)
}

func BIT(c *CPU, addr uint16) {
	val := c.Read8(addr)
	c.P.checkZ(c.A & val)
	c.P = c.P.SetOverflow(val&0x40 != 0)
	c.P.checkN(val)
}

/* shifts and rotates */

func asl(c *CPU, val uint8) uint8 {
	c.P = c.P.SetCarry(val&0x80 != 0)
	val <<= 1
	c.P.checkNZ(val)
	return val
}

func lsr(c *CPU, val uint8) uint8 {
	c.P = c.P.SetCarry(val&0x01 != 0)
	val >>= 1
	c.P.checkNZ(val)
	return val
}

func rol(c *CPU, val uint8) uint8 {
	carry := uint8(c.P & Carry)
	c.P = c.P.SetCarry(val&0x80 != 0)
	val = val<<1 | carry
	c.P.checkNZ(val)
	return val
}

func ror(c *CPU, val uint8) uint8 {
	carry := uint8(c.P&Carry) << 7
	c.P = c.P.SetCarry(val&0x01 != 0)
	val = val>>1 | carry
	c.P.checkNZ(val)
	return val
}

// rmw performs a read-modify-write on memory.
func rmw(c *CPU, addr uint16, f func(*CPU, uint8) uint8) {
	c.Write8(addr, f(c, c.Read8(addr)))
}

func ASL(c *CPU, addr uint16) { rmw(c, addr, asl) }
func LSR(c *CPU, addr uint16) { rmw(c, addr, lsr) }
func ROL(c *CPU, addr uint16) { rmw(c, addr, rol) }
func ROR(c *CPU, addr uint16) { rmw(c, addr, ror) }

func ASLacc(c *CPU, _ uint16) { c.A = asl(c, c.A) }
func LSRacc(c *CPU, _ uint16) { c.A = lsr(c, c.A) }
func ROLacc(c *CPU, _ uint16) { c.A = rol(c, c.A) }
func RORacc(c *CPU, _ uint16) { c.A = ror(c, c.A) }

/* increments and decrements */

func INC(c *CPU, addr uint16) {
	rmw(c, addr, func(c *CPU, val uint8) uint8 {
		val++
		c.P.checkNZ(val)
		return val
	})
}

func DEC(c *CPU, addr uint16) {
	rmw(c, addr, func(c *CPU, val uint8) uint8 {
		val--
		c.P.checkNZ(val)
		return val
	})
}

func INX(c *CPU, _ uint16) { c.X++; c.P.checkNZ(c.X) }
func INY(c *CPU, _ uint16) { c.Y++; c.P.checkNZ(c.Y) }
func DEX(c *CPU, _ uint16) { c.X--; c.P.checkNZ(c.X) }
func DEY(c *CPU, _ uint16) { c.Y--; c.P.checkNZ(c.Y) }

/* loads, stores and transfers */

func LDA(c *CPU, addr uint16) { c.A = c.Read8(addr); c.P.checkNZ(c.A) }
func LDX(c *CPU, addr uint16) { c.X = c.Read8(addr); c.P.checkNZ(c.X) }
func LDY(c *CPU, addr uint16) { c.Y = c.Read8(addr); c.P.checkNZ(c.Y) }

func STA(c *CPU, addr uint16) { c.Write8(addr, c.A) }
func STX(c *CPU, addr uint16) { c.Write8(addr, c.X) }
func STY(c *CPU, addr uint16) { c.Write8(addr, c.Y) }

func TAX(c *CPU, _ uint16) { c.X = c.A; c.P.checkNZ(c.X) }
func TAY(c *CPU, _ uint16) { c.Y = c.A; c.P.checkNZ(c.Y) }
func TSX(c *CPU, _ uint16) { c.X = c.SP; c.P.checkNZ(c.X) }
func TXA(c *CPU, _ uint16) { c.A = c.X; c.P.checkNZ(c.A) }
func TYA(c *CPU, _ uint16) { c.A = c.Y; c.P.checkNZ(c.A) }

// TXS doesn't affect flags.
func TXS(c *CPU, _ uint16) { c.SP = c.X }

/* flags */

func CLC(c *CPU, _ uint16) { c.P = c.P.SetCarry(false) }
func CLD(c *CPU, _ uint16) { c.P = c.P.SetDecimal(false) }
func CLI(c *CPU, _ uint16) { c.P = c.P.SetIntDisable(false) }
func CLV(c *CPU, _ uint16) { c.P = c.P.SetOverflow(false) }
func SEC(c *CPU, _ uint16) { c.P = c.P.SetCarry(true) }
func SED(c *CPU, _ uint16) { c.P = c.P.SetDecimal(true) }
func SEI(c *CPU, _ uint16) { c.P = c.P.SetIntDisable(true) }

/* stack */

func PHA(c *CPU, _ uint16) { c.push8(c.A) }
func PHP(c *CPU, _ uint16) { c.push8(c.P.pushed(true)) }
func PLA(c *CPU, _ uint16) { c.A = c.pull8(); c.P.checkNZ(c.A) }
func PLP(c *CPU, _ uint16) { c.P = pulled(c.pull8()) }

/* jumps and branches */

func JMP(c *CPU, addr uint16) {
	c.PC = addr
}

func JSR(c *CPU, addr uint16) {
	c.push16(c.PC - 1)
	c.PC = addr
}

func RTS(c *CPU, _ uint16) {
	c.PC = c.pull16() + 1
}

func RTI(c *CPU, _ uint16) {
	c.P = pulled(c.pull8())
	c.PC = c.pull16()
}

func BRK(c *CPU, _ uint16) {
	// BRK has a padding byte: the return address skips it.
	c.push16(c.PC + 1)
	c.push8(c.P.pushed(true))
	c.P = c.P.SetIntDisable(true)
	c.PC = c.Read16(IRQVector)
}

func NOP(c *CPU, _ uint16) {}

// branch jumps to addr if cond is true: +1 cycle if taken, +1 more if the
// target is in another page.
func branch(c *CPU, addr uint16, cond bool) {
	if !cond {
		return
	}
	c.extra++
	if pagecrossed(c.PC, addr) {
		c.extra++
	}
	c.PC = addr
}

func BCC(c *CPU, addr uint16) { branch(c, addr, !c.P.Carry()) }
func BCS(c *CPU, addr uint16) { branch(c, addr, c.P.Carry()) }
func BNE(c *CPU, addr uint16) { branch(c, addr, !c.P.Zero()) }
func BEQ(c *CPU, addr uint16) { branch(c, addr, c.P.Zero()) }
func BPL(c *CPU, addr uint16) { branch(c, addr, !c.P.Negative()) }
func BMI(c *CPU, addr uint16) { branch(c, addr, c.P.Negative()) }
func BVC(c *CPU, addr uint16) { branch(c, addr, !c.P.Overflow()) }
func BVS(c *CPU, addr uint16) { branch(c, addr, c.P.Overflow()) }
