package input

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"nescore/emu/log"
)

// FM2 pad fields list buttons as RLDUTSBA, any character other than '.' or
// ' ' means the button is pressed.
var fm2Buttons = [8]PaddleButton{PadRight, PadLeft, PadDown, PadUp, PadStart, PadSelect, PadB, PadA}

// Command is the FM2 command field of a frame.
type Command uint8

const (
	SoftReset Command = 1 << iota
	HardReset
)

type frameInput struct {
	cmd  Command
	pads [2]Buttons
}

// A Movie plays back the controller input recorded in a FM2 file (FCEUX
// movie format), one input line per frame. After the last recorded frame
// both controllers are released.
type Movie struct {
	Header map[string]string

	frames []frameInput
	cur    uint64
}

// ReadMovie parses a FM2 movie. Header lines are "key value", input lines
// are "|commands|port0|port1|port2|".
func ReadMovie(r io.Reader) (*Movie, error) {
	m := &Movie{Header: make(map[string]string)}

	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case line == "":
			continue
		case line[0] == '|':
			f, err := parseFrame(line)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineno)
			}
			m.frames = append(m.frames, f)
		default:
			key, val, _ := strings.Cut(line, " ")
			m.Header[key] = val
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read movie")
	}

	log.ModInput.InfoZ("loaded movie").
		Int("frames", len(m.frames)).
		String("rerecords", m.Header["rerecordCount"]).
		End()
	return m, nil
}

func parseFrame(line string) (frameInput, error) {
	var f frameInput

	fields := strings.Split(line, "|")
	// Leading '|' yields an empty first field.
	if len(fields) < 3 {
		return f, errors.Errorf("malformed input line %q", line)
	}

	cmd, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 8)
	if err != nil {
		return f, errors.Wrap(err, "command")
	}
	f.cmd = Command(cmd)

	for port := 0; port < 2 && port+2 < len(fields); port++ {
		pad := fields[port+2]
		if pad == "" {
			continue
		}
		if len(pad) != len(fm2Buttons) {
			return f, errors.Errorf("port %d: bad pad field %q", port, pad)
		}
		for i, c := range []byte(pad) {
			if c != '.' && c != ' ' {
				f.pads[port].Press(fm2Buttons[i])
			}
		}
	}
	return f, nil
}

// Len returns the number of recorded frames.
func (m *Movie) Len() int {
	return len(m.frames)
}

// SetFrame selects the input of the given frame.
func (m *Movie) SetFrame(frame uint64) {
	m.cur = frame
}

// Command returns the command recorded for the given frame.
func (m *Movie) Command(frame uint64) Command {
	if frame >= uint64(len(m.frames)) {
		return 0
	}
	return m.frames[frame].cmd
}

func (m *Movie) LoadState() (uint8, uint8) {
	if m.cur >= uint64(len(m.frames)) {
		return 0, 0
	}
	pads := m.frames[m.cur].pads
	return uint8(pads[0]), uint8(pads[1])
}
