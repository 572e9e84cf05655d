package hwio

import (
	"fmt"
	"strings"

	"nescore/emu/log"
)

type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota)
	WriteOnlyFlag
)

// Reg8 is an 8-bit memory-mapped register.
//
// Writes leave the bits in RoMask untouched, then call WriteCb with the old
// and new values. Reads return ReadCb(Value) when ReadCb is set. Peeks use
// PeekCb, and never have side effects.
type Reg8 struct {
	Name   string
	Value  uint8
	RoMask uint8
	Flags  RWFlags

	ReadCb  func(val uint8) uint8
	PeekCb  func(val uint8) uint8
	WriteCb func(old uint8, val uint8)

	reported bool // an invalid access was already logged as an error
}

func (reg Reg8) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s{%02x", reg.Name, reg.Value)
	for _, cb := range []struct {
		set bool
		s   string
	}{
		{reg.ReadCb != nil, ",r!"},
		{reg.PeekCb != nil, ",p!"},
		{reg.WriteCb != nil, ",w!"},
	} {
		if cb.set {
			sb.WriteString(cb.s)
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// invalid logs an access the register doesn't support. Only the first one is
// an error, the following ones are debug logs.
func (reg *Reg8) invalid(access string, addr uint16) {
	logz := log.ModHwIo.DebugZ
	if !reg.reported {
		reg.reported = true
		logz = log.ModHwIo.ErrorZ
	}
	logz("invalid "+access).
		String("reg", reg.Name).
		Hex16("addr", addr).
		End()
}

func (reg *Reg8) Read8(addr uint16) uint8 {
	switch {
	case reg.Flags&WriteOnlyFlag != 0:
		reg.invalid("read from write-only register", addr)
		return 0
	case reg.ReadCb != nil:
		return reg.ReadCb(reg.Value)
	}
	return reg.Value
}

func (reg *Reg8) Peek8(addr uint16) uint8 {
	if reg.PeekCb == nil {
		return reg.Value
	}
	return reg.PeekCb(reg.Value)
}

func (reg *Reg8) Write8(addr uint16, val uint8) {
	if reg.Flags&ReadOnlyFlag != 0 {
		reg.invalid("write to read-only register", addr)
		return
	}

	old := reg.Value
	reg.Value = old&reg.RoMask | val&^reg.RoMask
	if reg.WriteCb != nil {
		reg.WriteCb(old, reg.Value)
	}
}

func (reg *Reg8) GetBit(n uint) bool   { return GetBit(reg.Value, n) }
func (reg *Reg8) GetBiti(n uint) uint8 { return GetBiti(reg.Value, n) }
func (reg *Reg8) SetBit(n uint)        { SetBit(&reg.Value, n) }
func (reg *Reg8) ClearBit(n uint)      { ClearBit(&reg.Value, n) }
func (reg *Reg8) ClearBits(mask uint8) { ClearBits(&reg.Value, mask) }
