package ines

// NTMirroring describes how the 4 logical nametables are laid out over the
// physical PPU VRAM.
type NTMirroring uint8

const (
	HorzMirroring NTMirroring = iota
	VertMirroring
	OnlyAScreen
	OnlyBScreen
	FourScreen
)

func (m NTMirroring) String() string {
	switch m {
	case HorzMirroring:
		return "horizontal"
	case VertMirroring:
		return "vertical"
	case OnlyAScreen:
		return "one-screen-low"
	case OnlyBScreen:
		return "one-screen-high"
	case FourScreen:
		return "four-screen"
	}
	return "unknown"
}
