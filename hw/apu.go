package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Channels with a length counter, in $4015 bit order.
const (
	pulse1 = iota
	pulse2
	triangle
	noise

	numLengthChannels
)

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// CPU cycles at which the frame counter steps, for the 4-step and 5-step
// sequences. Half frames (which clock length counters) happen on the 2nd and
// 5th steps. The sequence restarts after the last step.
var stepCycles = [2][6]int32{
	{7457, 14913, 22371, 29828, 29829, 29830},
	{7457, 14913, 22371, 29829, 37281, 37282},
}

// APU implements the register interface of the audio processing unit: channel
// registers are stored, length counters and the frame counter are emulated so
// that $4015 reads back what games expect. No sound is produced.
type APU struct {
	Regs   [0x14]hwio.Reg8 // $4000-$4013
	STATUS hwio.Reg8       // $4015
	FRAME  hwio.Reg8       // $4017 (write)

	length     [numLengthChannels]uint8
	halt       [numLengthChannels]bool
	enabled    [numLengthChannels]bool
	dmcEnabled bool

	mode  int   // 0: 4-step, 1: 5-step
	cycle int32 // CPU cycles since the frame counter sequence began
}

func NewAPU() *APU {
	a := &APU{}
	for i := range a.Regs {
		a.Regs[i].Name = "APU"
		a.Regs[i].Flags = hwio.WriteOnlyFlag
	}
	a.STATUS = hwio.Reg8{
		Name:    "STATUS",
		ReadCb:  func(uint8) uint8 { return a.Status() },
		PeekCb:  func(uint8) uint8 { return a.Status() },
		WriteCb: a.writeSTATUS,
	}
	a.FRAME = hwio.Reg8{
		Name:    "FRAMECOUNTER",
		Flags:   hwio.WriteOnlyFlag,
		WriteCb: a.writeFRAME,
	}
	return a
}

func (a *APU) Reset(soft bool) {
	a.length = [numLengthChannels]uint8{}
	a.enabled = [numLengthChannels]bool{}
	a.dmcEnabled = false
	a.cycle = 0
	if !soft {
		a.mode = 0
	}
}

// WriteReg handles writes to $4000-$4013.
func (a *APU) WriteReg(addr uint16, val uint8) {
	reg := addr - 0x4000
	a.Regs[reg].Write8(addr, val)

	switch reg {
	case 0x00, 0x04, 0x0C:
		a.halt[reg/4] = val&0x20 != 0
	case 0x08:
		a.halt[triangle] = val&0x80 != 0
	case 0x03, 0x07, 0x0B, 0x0F:
		ch := reg / 4
		if a.enabled[ch] {
			a.length[ch] = lengthTable[val>>3]
		}
	}
}

// Status returns the value of $4015: bit n is set when the length counter of
// channel n is non-zero. Samples are never played, so the DMC (bit 4) stays
// active as long as it is enabled.
func (a *APU) Status() uint8 {
	var status uint8
	for ch, l := range a.length {
		if l > 0 {
			status |= 1 << ch
		}
	}
	if a.dmcEnabled {
		status |= 0x10
	}
	return status
}

func (a *APU) writeSTATUS(_, val uint8) {
	for ch := range a.enabled {
		a.enabled[ch] = val&(1<<ch) != 0
		if !a.enabled[ch] {
			a.length[ch] = 0
		}
	}
	a.dmcEnabled = val&0x10 != 0
}

func (a *APU) writeFRAME(_, val uint8) {
	log.ModSound.DebugZ("write framecounter").Hex8("val", val).End()

	a.mode = int(val >> 7)
	a.cycle = 0
	if a.mode == 1 {
		// Writing with bit 7 set immediately clocks a half frame.
		a.halfFrame()
	}
}

// Tick advances the frame counter by n CPU cycles.
func (a *APU) Tick(n int) {
	steps := &stepCycles[a.mode]
	for i := 0; i < n; i++ {
		a.cycle++
		if a.cycle == steps[1] || a.cycle == steps[4] {
			a.halfFrame()
		}
		if a.cycle >= steps[5] {
			a.cycle = 0
		}
	}
}

func (a *APU) halfFrame() {
	for ch := range a.length {
		if a.length[ch] > 0 && !a.halt[ch] {
			a.length[ch]--
		}
	}
}
