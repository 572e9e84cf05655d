package hw

import (
	"fmt"

	"nescore/hw/hwio"
)

type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PC     uint16
}

func (d DisasmOp) String() string {
	return string(d.Bytes())
}

// Bytes returns the nestest-like representation of the instruction: address,
// raw bytes, mnemonic and operand.
func (d DisasmOp) Bytes() []byte {
	const totalLen = 48
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], byte(d.PC>>8))
	hexEncode(buf[2:], byte(d.PC))
	buf[4] = ' '
	buf[5] = ' '

	off := 6
	for i := range d.Buf {
		hexEncode(buf[off:], d.Buf[i])
		buf[off+2] = ' '
		off += 3
	}

	for ; off < 16; off++ {
		buf[off] = ' '
	}

	off += copy(buf[off:], d.Opcode)
	buf[off] = ' '
	off++

	buf = append(buf[:off], d.Oper...)
	off += len(d.Oper)
	if len(buf) > totalLen {
		buf = append(buf, ' ')
	} else {
		buf = buf[:totalLen]
		for i := off; i < totalLen; i++ {
			buf[i] = ' '
		}
	}

	return buf
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

// Disasm disassembles the instruction at pc, without side effects. Opcodes
// with no handler are shown as a .db directive.
func Disasm(bus hwio.BankIO8, pc uint16) DisasmOp {
	opcode := bus.Peek8(pc)
	op := &ops[opcode]
	if op.exec == nil {
		return DisasmOp{
			Opcode: ".db",
			Oper:   fmt.Sprintf("$%02X", opcode),
			Buf:    []byte{opcode},
			PC:     pc,
		}
	}

	d := DisasmOp{Opcode: op.name, PC: pc}
	for i, size := 0, op.mode.size(); i < size; i++ {
		d.Buf = append(d.Buf, bus.Peek8(pc+uint16(i)))
	}

	var (
		b = bus.Peek8(pc + 1)
		w = hwio.Peek16(bus, pc+1)
	)
	switch op.mode {
	case accumulator:
		d.Oper = "A"
	case immediate:
		d.Oper = fmt.Sprintf("#$%02X", b)
	case zeroPage:
		d.Oper = fmt.Sprintf("$%02X", b)
	case zeroPageX:
		d.Oper = fmt.Sprintf("$%02X,X", b)
	case zeroPageY:
		d.Oper = fmt.Sprintf("$%02X,Y", b)
	case absolute:
		d.Oper = formatAddr(w)
	case absoluteX:
		d.Oper = formatAddr(w) + ",X"
	case absoluteY:
		d.Oper = formatAddr(w) + ",Y"
	case indirect:
		d.Oper = fmt.Sprintf("($%04X)", w)
	case indexedIndirect:
		d.Oper = fmt.Sprintf("($%02X,X)", b)
	case indirectIndexed:
		d.Oper = fmt.Sprintf("($%02X),Y", b)
	case relative:
		d.Oper = fmt.Sprintf("$%04X", pc+2+uint16(int8(b)))
	}
	return d
}

var addressLabels = map[uint16]string{
	0x2000: "PpuControl_2000",
	0x2001: "PpuMask_2001",
	0x2002: "PpuStatus_2002",
	0x2003: "OamAddr_2003",
	0x2004: "OamData_2004",
	0x2005: "PpuScroll_2005",
	0x2006: "PpuAddr_2006",
	0x2007: "PpuData_2007",
	0x4014: "SpriteDma_4014",
	0x4015: "ApuStatus_4015",
	0x4016: "Ctrl1_4016",
	0x4017: "Ctrl2_FrameCtr_4017",
}

func formatAddr(addr uint16) string {
	if label, ok := addressLabels[addr]; ok {
		return label
	}
	return fmt.Sprintf("$%04X", addr)
}
