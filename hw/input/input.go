package input

import (
	"os"
	"strings"

	"github.com/go-faster/errors"
)

// A PaddleButton identifies a button of a standard NES controller/paddle.
// Its value is the bit position in the controller shift register.
type PaddleButton byte

const (
	PadA PaddleButton = iota
	PadB
	PadSelect
	PadStart
	PadUp
	PadDown
	PadLeft
	PadRight

	PadButtonCount
)

var buttonNames = [PadButtonCount]string{
	"A", "B",
	"Select", "Start",
	"Up", "Down", "Left", "Right",
}

func (pd PaddleButton) String() string {
	return buttonNames[pd]
}

// Buttons is the state of a controller, one bit per PaddleButton. A set bit
// means pressed.
type Buttons uint8

func (b Buttons) Pressed(btn PaddleButton) bool {
	return b&(1<<btn) != 0
}

func (b *Buttons) Press(btn PaddleButton) {
	*b |= 1 << btn
}

// String returns the pressed buttons joined by '+', for example "A+Start".
func (b Buttons) String() string {
	var names []string
	for btn := PaddleButton(0); btn < PadButtonCount; btn++ {
		if b.Pressed(btn) {
			names = append(names, btn.String())
		}
	}
	return strings.Join(names, "+")
}

func (b Buttons) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Buttons) UnmarshalText(text []byte) error {
	*b = 0
	if len(text) == 0 {
		return nil
	}
next:
	for _, name := range strings.Split(string(text), "+") {
		for btn := PaddleButton(0); btn < PadButtonCount; btn++ {
			if strings.EqualFold(name, btn.String()) {
				b.Press(btn)
				continue next
			}
		}
		return errors.Errorf("unknown button %q", name)
	}
	return nil
}

// A Provider supplies the state of both controllers. SetFrame is called at
// the start of each frame, before the game polls its controllers.
type Provider interface {
	LoadState() (uint8, uint8)
	SetFrame(frame uint64)
}

// Static is a provider with constant controller states.
type Static [2]Buttons

func (s Static) LoadState() (uint8, uint8) { return uint8(s[0]), uint8(s[1]) }
func (s Static) SetFrame(uint64)           {}

type Config struct {
	// Path to a FM2 movie. If empty, Held is used.
	Movie string `toml:"movie"`
	// Buttons held down for the whole run, when there's no movie.
	Held [2]Buttons `toml:"held"`
	// Unplugged ports always read as released.
	Unplugged [2]bool `toml:"unplugged"`
}

// NewProvider returns the provider described by cfg.
func NewProvider(cfg Config) (Provider, error) {
	var p Provider = Static(cfg.Held)
	if cfg.Movie != "" {
		f, err := os.Open(cfg.Movie)
		if err != nil {
			return nil, errors.Wrap(err, "open movie")
		}
		defer f.Close()

		m, err := ReadMovie(f)
		if err != nil {
			return nil, errors.Wrapf(err, "movie %s", cfg.Movie)
		}
		p = m
	}

	if cfg.Unplugged[0] || cfg.Unplugged[1] {
		p = &ports{Provider: p, unplugged: cfg.Unplugged}
	}
	return p, nil
}

// Commander is implemented by providers that also record console commands,
// such as FM2 movies.
type Commander interface {
	Command(frame uint64) Command
}

type ports struct {
	Provider
	unplugged [2]bool
}

// Command forwards the commands of the wrapped provider.
func (p *ports) Command(frame uint64) Command {
	if c, ok := p.Provider.(Commander); ok {
		return c.Command(frame)
	}
	return 0
}

func (p *ports) LoadState() (uint8, uint8) {
	p1, p2 := p.Provider.LoadState()
	if p.unplugged[0] {
		p1 = 0
	}
	if p.unplugged[1] {
		p2 = 0
	}
	return p1, p2
}
