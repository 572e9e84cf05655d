package tests

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// Chunk is a run of bytes starting at Addr.
type Chunk struct {
	Addr uint16
	Data []byte
}

// ParseHexdump parses lines of the form "0600: a9 01 8d 00 02" into chunks.
// Empty lines and lines starting with '#' are ignored.
func ParseHexdump(dump string) ([]Chunk, error) {
	var chunks []Chunk

	sc := bufio.NewScanner(strings.NewReader(dump))
	for lineno := 1; sc.Scan(); lineno++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		saddr, sbytes, ok := strings.Cut(line, ":")
		if !ok {
			return nil, errors.Errorf("line %d: missing ':'", lineno)
		}
		addr, err := strconv.ParseUint(strings.TrimSpace(saddr), 16, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: bad address", lineno)
		}

		c := Chunk{Addr: uint16(addr)}
		for _, sb := range strings.Fields(sbytes) {
			b, err := strconv.ParseUint(sb, 16, 8)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad byte", lineno)
			}
			c.Data = append(c.Data, byte(b))
		}
		chunks = append(chunks, c)
	}
	return chunks, sc.Err()
}
