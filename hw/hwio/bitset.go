package hwio

import "math/bits"

const (
	NumBits  = 0x10000            // NES addressing space is 64K
	wordSize = 64                 // using 64-bit words
	numWords = NumBits / wordSize // 1024 words exactly
)

// Bitset is a set of 16-bit addresses. Zero value is an empty set.
type Bitset struct {
	words [numWords]uint64
}

func (b *Bitset) Set(addr uint16) {
	b.words[addr/wordSize] |= 1 << (addr % wordSize)
}

func (b *Bitset) Clear(addr uint16) {
	b.words[addr/wordSize] &^= 1 << (addr % wordSize)
}

func (b *Bitset) Test(addr uint16) bool {
	return b.words[addr/wordSize]&(1<<(addr%wordSize)) != 0
}

// Count returns the number of addresses in the set.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

func (b *Bitset) Reset() {
	clear(b.words[:])
}
