//go:build !amd64 && !arm64

package group

import "encoding/binary"

// Width is the number of control bytes in one group on this
// architecture. The portable path packs a group into a single 64-bit
// word, one byte per lane, and does the comparison with plain integer
// arithmetic (the classic SWAR "find the zero byte" trick).
const Width = 8

// loadWord reads Width bytes from ctrl as a little-endian uint64,
// regardless of host endianness, so the SWAR arithmetic below always
// runs on a consistent bit layout.
func loadWord(ctrl []byte) uint64 {
	return binary.LittleEndian.Uint64(ctrl[:Width])
}

func storeWord(ctrl []byte, w uint64) {
	binary.LittleEndian.PutUint64(ctrl[:Width], w)
}

const loBits = 0x0101010101010101
const hiBits = 0x8080808080808080

// MatchByte returns a mask of the lanes in ctrl[:Width] equal to b.
//
// cmp := data ^ broadcast(b) makes every matching lane 0x00. Subtracting
// loBits from a 0x00 lane borrows into that byte's high bit; ANDing
// with NOT cmp cancels lanes that already had their high bit set so
// only genuine borrows survive, and the final AND hiBits keeps just
// the marker bits. A lane whose actual byte differs from b only in
// bit 0 can still borrow and produce a false positive here; callers
// must follow up with a real equality check, which they always do.
func MatchByte(b byte, ctrl []byte) BitMask {
	bcast := uint64(b) * loBits
	cmp := loadWord(ctrl) ^ bcast
	word := (cmp - loBits) &^ cmp & hiBits
	return newBitMask(word, hiBits, 8)
}

// MaskEmpty marks lanes holding the EMPTY control byte (0xFF).
func MaskEmpty(ctrl []byte) BitMask {
	return MatchByte(0xFF, ctrl)
}

// MaskEmptyOrDeleted marks lanes whose high bit is set, i.e. not FULL.
func MaskEmptyOrDeleted(ctrl []byte) BitMask {
	w := loadWord(ctrl) & hiBits
	return newBitMask(w, hiBits, 8)
}

// MaskFull marks lanes holding a FULL control byte.
func MaskFull(ctrl []byte) BitMask {
	return MaskEmptyOrDeleted(ctrl).Invert()
}

// ConvertSpecialToEmptyAndFullToDeleted rewrites ctrl[:Width] in
// place: EMPTY stays EMPTY, DELETED becomes EMPTY, FULL becomes
// DELETED. Done lane-by-lane rather than with a single shifted-word
// trick, since a whole-word shift walks marker bits across byte
// lanes and corrupts neighboring lanes.
func ConvertSpecialToEmptyAndFullToDeleted(ctrl []byte) {
	for i := 0; i < Width; i++ {
		if ctrl[i]&0x80 == 0 {
			ctrl[i] = 0x80 // DELETED
		} else {
			ctrl[i] = 0xFF // EMPTY
		}
	}
}
