package hw

import (
	"fmt"
	"io"
)

// PPUPosition reports the current scanline and dot.
type PPUPosition interface {
	Position() (scanline, dot int)
}

type tracer struct {
	d   *CPU
	w   io.Writer
	pos PPUPosition
}

// write the execution trace line for the instruction about to execute.
func (t *tracer) write(state CPUState) {
	dis := Disasm(t.d.Bus, state.PC)
	buf := dis.Bytes()

	var scanline, dot int
	if t.pos != nil {
		scanline, dot = t.pos.Position()
	}

	buf = fmt.Appendf(buf, "A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d\n",
		state.A, state.X, state.Y, byte(state.P), state.SP,
		scanline, dot, state.Cycles)
	t.w.Write(buf)
}
