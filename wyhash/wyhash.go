// Package wyhash implements the WyHash v4 64-bit non-cryptographic
// string hash. It is the hash RawTable uses to derive both the probe
// position (h1) and the control-byte tag (h2) of a key, so it needs
// high avalanche across the full 64-bit output, not just its low
// bits — see (*Hasher).Sum64.
package wyhash

import (
	"encoding/binary"
	"unsafe"
)

// secret holds the four default WyHash v4 constants.
var secret = [4]uint64{
	0xa0761d6478bd642f,
	0xe7037ed1a0b428db,
	0x8ebc6af09c88c6e3,
	0x589965cc75374cc3,
}

// Hasher configures a WyHash computation. The zero value hashes with
// entropy protection disabled, matching the Go and Nim ports this
// algorithm has been adapted for elsewhere.
type Hasher struct {
	// EntropyProtection, when true, XORs input into the running
	// 128-bit multiply result instead of replacing it outright. Off
	// by default.
	EntropyProtection bool
}

// mix performs a 128-bit multiply of a*b and folds the result down to
// 64 bits by XORing the high and low halves together.
func mix(a, b uint64) uint64 {
	hi, lo := mul128(a, b)
	return hi ^ lo
}

// mixInto is the EntropyProtection-aware multiply step: it either
// assigns the low and high halves of the product to *a and *b
// directly, or XORs them in.
func (h Hasher) mixInto(a, b *uint64) {
	hi, lo := mul128(*a, *b)
	if h.EntropyProtection {
		*a ^= lo
		*b ^= hi
	} else {
		*a = lo
		*b = hi
	}
}

func read32(p []byte) uint64 {
	return uint64(binary.LittleEndian.Uint32(p))
}

func read64(p []byte) uint64 {
	return binary.LittleEndian.Uint64(p)
}

// Sum64 hashes data with the given seed.
func (h Hasher) Sum64(data []byte, seed uint64) uint64 {
	seed ^= mix(seed^secret[0], secret[1])

	var a, b uint64
	n := len(data)

	switch {
	case n == 0:
		a, b = 0, 0
	case n <= 3:
		a = uint64(data[0])<<16 | uint64(data[n/2])<<8 | uint64(data[n-1])
		b = 0
	case n <= 16:
		a = read32(data)<<32 | read32(data[(n>>3)<<2:])
		b = read32(data[n-4:])<<32 | read32(data[n-4-((n>>3)<<2):])
	default:
		p := data
		seen := seed
		s1, s2 := seed, seed
		for len(p) > 48 {
			seen = mix(read64(p[0:])^secret[1], read64(p[8:])^seen)
			s1 = mix(read64(p[16:])^secret[2], read64(p[24:])^s1)
			s2 = mix(read64(p[32:])^secret[3], read64(p[40:])^s2)
			p = p[48:]
		}
		seen ^= s1 ^ s2
		for len(p) > 16 {
			seen = mix(read64(p[0:])^secret[1], read64(p[8:])^seen)
			p = p[16:]
		}
		a = read64(data[n-16:])
		b = read64(data[n-8:])
		seed = seen
	}

	a ^= secret[1]
	b ^= seed
	h.mixInto(&a, &b)
	return mix(a^secret[0]^uint64(n), b^secret[1])
}

// Sum64 hashes data with seed using WyHash v4 with entropy protection
// disabled, the default most RawTable callers want.
func Sum64(data []byte, seed uint64) uint64 {
	return Hasher{}.Sum64(data, seed)
}

// Sum64String is Sum64 without the []byte conversion allocation,
// reading directly from the string's backing array.
func Sum64String(data string, seed uint64) uint64 {
	if len(data) == 0 {
		return Sum64(nil, seed)
	}
	p := unsafe.Slice(unsafe.StringData(data), len(data))
	return Sum64(p, seed)
}
