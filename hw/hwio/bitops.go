package hwio

type word interface {
	~uint8 | ~uint16
}

func GetBit[T word](v T, n uint) bool {
	return GetBiti(v, n) != 0
}

func GetBiti[T word](v T, n uint) T {
	return v >> n & 0x01
}

func SetBit[T word](v *T, n uint) {
	*v |= 1 << n
}

func ClearBit[T word](v *T, n uint) {
	*v &^= 1 << n
}

func ClearBits[T word](v *T, mask T) {
	*v &^= mask
}
