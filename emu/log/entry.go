package log

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint32

// Same order as logrus levels.
const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

var (
	std      = newLogger()
	disabled bool
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	l.Level = logrus.DebugLevel
	l.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	return l
}

// SetOutput sets the sink of all log modules. By default logs are discarded.
func SetOutput(w io.Writer) {
	std.Out = w
}

// Disable disables all logs, including warnings and errors.
func Disable() {
	disabled = true
}

func (mod Module) logf(lvl Level, format string, args ...any) {
	if !mod.Enabled(lvl) {
		return
	}
	write(std.WithField("_mod", mod.String()), lvl, fmt.Sprintf(format, args...))
}

func write(e *logrus.Entry, lvl Level, msg string) {
	switch lvl {
	case DebugLevel:
		e.Debug(msg)
	case InfoLevel:
		e.Info(msg)
	case WarnLevel:
		e.Warn(msg)
	case ErrorLevel:
		e.Error(msg)
	case FatalLevel:
		e.Fatal(msg)
	case PanicLevel:
		e.Panic(msg)
	}
}

// EntryZ is a log entry built field by field. A nil *EntryZ is valid and
// discards everything, so that disabled log calls cost a nil check.
type EntryZ struct {
	lvl Level
	msg string
	mod Module

	fields  [16]field
	nfields int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func newEntryZ() *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.nfields = 0
	return e
}

func (z *EntryZ) add(f field) *EntryZ {
	if z == nil {
		return nil
	}
	if z.nfields < len(z.fields) {
		z.fields[z.nfields] = f
		z.nfields++
	}
	return z
}

func (z *EntryZ) hexField(key string, width int, val uint64) *EntryZ {
	return z.add(field{kind: kindHex, key: key, width: width, num: val})
}

func (z *EntryZ) uintField(key string, val uint64) *EntryZ {
	return z.add(field{kind: kindUint, key: key, num: val})
}

func (z *EntryZ) intField(key string, val int64) *EntryZ {
	return z.add(field{kind: kindInt, key: key, num: uint64(val)})
}

func (z *EntryZ) String(key, val string) *EntryZ {
	return z.add(field{kind: kindString, key: key, str: val})
}

func (z *EntryZ) Stringer(key string, val fmt.Stringer) *EntryZ {
	return z.add(field{kind: kindStringer, key: key, obj: val})
}

func (z *EntryZ) Bool(key string, val bool) *EntryZ {
	var n uint64
	if val {
		n = 1
	}
	return z.add(field{kind: kindBool, key: key, num: n})
}

func (z *EntryZ) Hex8(key string, val uint8) *EntryZ   { return z.hexField(key, 2, uint64(val)) }
func (z *EntryZ) Hex16(key string, val uint16) *EntryZ { return z.hexField(key, 4, uint64(val)) }
func (z *EntryZ) Hex32(key string, val uint32) *EntryZ { return z.hexField(key, 8, uint64(val)) }

func (z *EntryZ) Uint8(key string, val uint8) *EntryZ   { return z.uintField(key, uint64(val)) }
func (z *EntryZ) Uint16(key string, val uint16) *EntryZ { return z.uintField(key, uint64(val)) }
func (z *EntryZ) Uint32(key string, val uint32) *EntryZ { return z.uintField(key, uint64(val)) }
func (z *EntryZ) Uint64(key string, val uint64) *EntryZ { return z.uintField(key, val) }

func (z *EntryZ) Int(key string, val int) *EntryZ     { return z.intField(key, int64(val)) }
func (z *EntryZ) Int32(key string, val int32) *EntryZ { return z.intField(key, int64(val)) }
func (z *EntryZ) Int64(key string, val int64) *EntryZ { return z.intField(key, val) }

func (z *EntryZ) Error(key string, err error) *EntryZ {
	f := field{kind: kindError, key: key}
	if err != nil {
		f.obj = err
	}
	return z.add(f)
}

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return z.add(field{kind: kindDuration, key: key, num: uint64(d)})
}

func (z *EntryZ) Blob(key string, b []byte) *EntryZ {
	return z.add(field{kind: kindBlob, key: key, obj: b})
}

// End emits the entry.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	fields := make(logrus.Fields, z.nfields+1)
	fields["_mod"] = z.mod.String()
	for i := range z.fields[:z.nfields] {
		fields[z.fields[i].key] = z.fields[i].value()
	}

	lvl, msg := z.lvl, z.msg
	clear(z.fields[:z.nfields])
	entryPool.Put(z)

	write(std.WithFields(fields), lvl, msg)
}
