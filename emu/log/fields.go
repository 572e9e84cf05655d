package log

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type fieldKind uint8

const (
	kindBool fieldKind = iota + 1
	kindString
	kindHex
	kindInt
	kindUint
	kindError
	kindDuration
	kindStringer
	kindBlob
)

// field is a typed key/value pair, only formatted when its entry is emitted.
type field struct {
	kind  fieldKind
	key   string
	width int // number of digits, for kindHex

	num uint64
	str string
	obj any // error, fmt.Stringer or []byte
}

func (f *field) value() string {
	switch f.kind {
	case kindBool:
		return strconv.FormatBool(f.num != 0)
	case kindString:
		return f.str
	case kindHex:
		s := strconv.FormatUint(f.num, 16)
		if len(s) < f.width {
			s = strings.Repeat("0", f.width-len(s)) + s
		}
		return s
	case kindInt:
		return strconv.FormatInt(int64(f.num), 10)
	case kindUint:
		return strconv.FormatUint(f.num, 10)
	case kindError:
		if f.obj == nil {
			return "<nil>"
		}
		return f.obj.(error).Error()
	case kindDuration:
		return time.Duration(f.num).String()
	case kindStringer:
		return f.obj.(fmt.Stringer).String()
	case kindBlob:
		return hex.Dump(f.obj.([]byte))
	}
	return ""
}
