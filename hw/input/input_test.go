package input

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestButtonsTextRoundTrip(t *testing.T) {
	tests := []struct {
		text string
		want *Buttons // nil for unmarshal errors
	}{
		{"", ptr(0)},
		{"A", ptr(0x01)},
		{"A+Start", ptr(0x09)},
		{"Up+Right+B", ptr(0x92)},

		// unmarshal errors
		{"Turbo", nil},
		{"A+", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var b Buttons
			if err := b.UnmarshalText([]byte(tt.text)); err != nil {
				if tt.want != nil {
					t.Fatalf("UnmarshalText(%q) error: %v", tt.text, err)
				}
				return
			}
			if tt.want == nil {
				t.Fatalf("UnmarshalText(%q) should fail", tt.text)
			}

			if diff := cmp.Diff(*tt.want, b); diff != "" {
				t.Fatalf("UnmarshalText(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}

			// Marshaling orders buttons by bit.
			var again Buttons
			text, _ := b.MarshalText()
			if err := again.UnmarshalText(text); err != nil || again != b {
				t.Fatalf("round trip of %q gave %q", tt.text, text)
			}
		})
	}
}

func ptr(b Buttons) *Buttons { return &b }

const movie = `version 3
emuVersion 22020
rerecordCount 12
romFilename smb
|0|........|........||
|0|.......A|........||
|0|R..U....|.....S..||
|1|....T..A|R.......||
`

func TestReadMovie(t *testing.T) {
	m, err := ReadMovie(strings.NewReader(movie))
	if err != nil {
		t.Fatal(err)
	}

	if m.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", m.Len())
	}
	if m.Header["rerecordCount"] != "12" || m.Header["romFilename"] != "smb" {
		t.Errorf("bad header: %v", m.Header)
	}

	type pads struct{ P1, P2 uint8 }
	want := []pads{
		{0x00, 0x00},
		{0x01, 0x00},
		{0x90, 0x04},
		{0x09, 0x80},
		{0x00, 0x00}, // past the end
	}
	var got []pads
	for frame := uint64(0); frame < uint64(len(want)); frame++ {
		m.SetFrame(frame)
		p1, p2 := m.LoadState()
		got = append(got, pads{p1, p2})
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("movie input mismatch (-want +got):\n%s", diff)
	}

	if m.Command(3) != SoftReset || m.Command(2) != 0 || m.Command(100) != 0 {
		t.Errorf("bad commands: %d %d", m.Command(3), m.Command(2))
	}
}

func TestReadMovieErrors(t *testing.T) {
	for _, bad := range []string{
		"|x|........|........||",
		"|0|.....|........||",
		"|",
	} {
		if _, err := ReadMovie(strings.NewReader(bad)); err == nil {
			t.Errorf("ReadMovie(%q) should fail", bad)
		}
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{
		Held:      [2]Buttons{0x08, 0x01},
		Unplugged: [2]bool{false, true},
	})
	if err != nil {
		t.Fatal(err)
	}
	p.SetFrame(10)
	if p1, p2 := p.LoadState(); p1 != 0x08 || p2 != 0 {
		t.Errorf("LoadState() = %02x %02x, want 08 00", p1, p2)
	}

	if _, err := NewProvider(Config{Movie: "does/not/exist.fm2"}); err == nil {
		t.Errorf("NewProvider should fail with a missing movie")
	}
}
