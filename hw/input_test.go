package hw

import "testing"

func latch(ip *InputPorts) {
	ip.In.Write8(0x4016, 1)
	ip.In.Write8(0x4016, 0)
}

func TestInputPortsShift(t *testing.T) {
	// A, Start and Right pressed on pad 1, B on pad 2.
	ip := NewInputPorts(pads{0b1000_1001, 0b0000_0010})
	latch(ip)

	want1 := []uint8{1, 0, 0, 1, 0, 0, 0, 1}
	want2 := []uint8{0, 1, 0, 0, 0, 0, 0, 0}
	for i := 0; i < 8; i++ {
		if got := ip.In.Read8(0x4016); got != want1[i] {
			t.Errorf("pad1 read %d = %d, want %d", i, got, want1[i])
		}
		if got := ip.Out.Read8(0x4017); got != want2[i] {
			t.Errorf("pad2 read %d = %d, want %d", i, got, want2[i])
		}
	}

	// After 8 reads, 0 is returned.
	for i := 0; i < 4; i++ {
		if got := ip.In.Read8(0x4016); got != 0 {
			t.Errorf("extra read %d = %d, want 0", i, got)
		}
	}
}

func TestInputPortsStrobeHigh(t *testing.T) {
	ip := NewInputPorts(pads{0x01, 0x00})
	ip.In.Write8(0x4016, 1)

	for i := 0; i < 10; i++ {
		if got := ip.In.Read8(0x4016); got != 1 {
			t.Errorf("read %d with strobe high = %d, want 1 (A button)", i, got)
		}
	}
}

func TestInputPortsPeek(t *testing.T) {
	ip := NewInputPorts(pads{0x03, 0x00})
	latch(ip)

	for i := 0; i < 3; i++ {
		if got := ip.In.Peek8(0x4016); got != 1 {
			t.Fatalf("peek = %d, want 1", got)
		}
	}
	ip.In.Read8(0x4016)
	ip.In.Read8(0x4016)
	if got := ip.In.Read8(0x4016); got != 0 {
		t.Errorf("third read = %d, want 0", got)
	}
}

func TestInputPortsUnplugged(t *testing.T) {
	ip := NewInputPorts(nil)
	latch(ip)
	for i := 0; i < 8; i++ {
		if got := ip.In.Read8(0x4016); got != 0 {
			t.Errorf("read %d = %d, want 0", i, got)
		}
	}
}
