package wyhash

import "math/bits"

// mul128 returns the high and low 64 bits of a*b as an unsigned
// 128-bit product.
func mul128(a, b uint64) (hi, lo uint64) {
	hi, lo = bits.Mul64(a, b)
	return hi, lo
}
