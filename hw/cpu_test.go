package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		p    P
		want string
	}{
		{0b00110100, "nvUBdIzc"},
		{0b00000100, "nvubdIzc"},
		{0xFF, "NVUBDIZC"},
		{0x00, "nvubdizc"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("P(%02x).String() = %s, want %s", uint8(tt.p), got, tt.want)
		}
	}
}

func TestStatusSetters(t *testing.T) {
	p := P(0x40).SetIntDisable(true)
	if p != 0x44 {
		t.Errorf("SetIntDisable: got %s, want %s", p, P(0x44))
	}
	p = p.SetBreak(true).SetOverflow(false)
	if p != 0x14 {
		t.Errorf("SetBreak+SetOverflow: got %s, want %s", p, P(0x14))
	}
}

func TestStatusNZ(t *testing.T) {
	type nz struct{ N, Z bool }
	var got []nz
	for _, v := range []uint8{0x00, 0x01, 0x7F, 0x80, 0xFF} {
		var p P
		p.checkNZ(v)
		got = append(got, nz{p.Negative(), p.Zero()})
	}

	want := []nz{{false, true}, {false, false}, {false, false}, {true, false}, {true, false}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("checkNZ mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusCV(t *testing.T) {
	tests := []struct {
		x, y uint8
		c, v bool
	}{
		{0x50, 0x10, false, false},
		{0x50, 0x50, false, true},
		{0xD0, 0x90, true, true},
		{0xFF, 0x01, true, false},
	}
	for _, tt := range tests {
		var p P
		p.checkCV(tt.x, tt.y, uint16(tt.x)+uint16(tt.y))
		if p.Carry() != tt.c || p.Overflow() != tt.v {
			t.Errorf("%02x+%02x: C=%t V=%t, want C=%t V=%t", tt.x, tt.y, p.Carry(), p.Overflow(), tt.c, tt.v)
		}
	}
}

func TestStatusStack(t *testing.T) {
	p := P(Carry | Negative)
	if got := p.pushed(true); got != 0xB1 {
		t.Errorf("pushed(brk) = %02x, want b1", got)
	}
	if got := p.pushed(false); got != 0xA1 {
		t.Errorf("pushed(irq) = %02x, want a1", got)
	}
	if got := pulled(0xFF); got != 0xEF {
		t.Errorf("pulled(ff) = %s, want %s", got, P(0xEF))
	}
}
