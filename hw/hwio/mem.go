package hwio

import "nescore/emu/log"

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Mem is a linear memory area. Its size must be a power of 2: accesses are
// masked with the size, so the area is mirrored over any larger window it is
// mapped at.
type Mem struct {
	Name  string   // name of the memory area (for debugging)
	Data  []byte   // actual memory buffer
	Flags MemFlags // flags determining how the memory can be accessed

	mask uint16
}

func NewMem(name string, size int, flags MemFlags) *Mem {
	return MemFrom(name, make([]byte, size), flags)
}

// MemFrom wraps buf, which must have a power of 2 length.
func MemFrom(name string, buf []byte, flags MemFlags) *Mem {
	if len(buf) == 0 || len(buf)&(len(buf)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &Mem{
		Name:  name,
		Data:  buf,
		Flags: flags,
		mask:  uint16(len(buf) - 1),
	}
}

func (m *Mem) Read8(addr uint16) uint8 {
	return m.Data[addr&m.mask]
}

func (m *Mem) Peek8(addr uint16) uint8 {
	return m.Data[addr&m.mask]
}

func (m *Mem) Write8(addr uint16, val uint8) {
	switch {
	case m.Flags&MemFlagNoROLog != 0:
		return
	case m.Flags&MemFlag8ReadOnly != 0:
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			String("name", m.Name).
			Hex8("val", val).
			Hex16("addr", addr).
			End()
		return
	}
	m.Data[addr&m.mask] = val
}

// Reset zeroes the memory content.
func (m *Mem) Reset() {
	clear(m.Data)
}
