package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// an InputDevice is a generic interface for NES input devices.
type InputDevice interface {
	// LoadState captures the current state of both controllers. Bit 0 is A,
	// then B, Select, Start, Up, Down, Left and bit 7 is Right. A set bit
	// means pressed.
	LoadState() (uint8, uint8)
}

// InputPorts handles I/O with an InputDevice through the controller shift
// registers at $4016 (In/port 1) and $4017 (Out/port 2).
type InputPorts struct {
	In  hwio.Reg8
	Out hwio.Reg8

	dev InputDevice

	strobe bool     // to observe strobe falling edge.
	state  [2]uint8 // state shift registers.
	nread  [2]uint8 // number of bits shifted out of each register.
}

func NewInputPorts(dev InputDevice) *InputPorts {
	ip := &InputPorts{dev: dev}
	ip.In = hwio.Reg8{
		Name:    "IN",
		WriteCb: ip.writeIN,
		ReadCb:  func(uint8) uint8 { return ip.read(0) },
		PeekCb:  func(uint8) uint8 { return ip.peek(0) },
	}
	ip.Out = hwio.Reg8{
		Name:   "OUT",
		ReadCb: func(uint8) uint8 { return ip.read(1) },
		PeekCb: func(uint8) uint8 { return ip.peek(1) },
	}
	return ip
}

// Plug connects an input device, nil disconnects it.
func (ip *InputPorts) Plug(dev InputDevice) {
	ip.dev = dev
}

// capture state of all connected input devices.
func (ip *InputPorts) loadstate() {
	ip.nread = [2]uint8{}
	if ip.dev == nil {
		// No controller is connected.
		ip.state = [2]uint8{}
		return
	}
	ip.state[0], ip.state[1] = ip.dev.LoadState()
	log.ModInput.DebugZ("latch controllers").
		Hex8("pad1", ip.state[0]).
		Hex8("pad2", ip.state[1]).
		End()
}

// $4016 writes: the controllers state is latched on the strobe falling edge.
func (ip *InputPorts) writeIN(_, val uint8) {
	prev := ip.strobe
	ip.strobe = val&1 == 1
	if prev && !ip.strobe {
		ip.loadstate()
	}
}

func (ip *InputPorts) read(port int) uint8 {
	if ip.strobe {
		// While strobe is high, the shift registers are continuously
		// reloaded: reads keep returning the A button.
		ip.loadstate()
		return ip.state[port] & 1
	}

	// After 8 bits are read, subsequent reads return 0.
	if ip.nread[port] >= 8 {
		return 0
	}
	ret := ip.state[port] & 1
	ip.state[port] >>= 1
	ip.nread[port]++
	return ret
}

func (ip *InputPorts) peek(port int) uint8 {
	if ip.nread[port] >= 8 {
		return 0
	}
	return ip.state[port] & 1
}
