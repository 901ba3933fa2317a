package group

// Load copies the Width control bytes starting at ctrl. The portable
// and wide paths both accept arbitrary byte alignment; there is no
// separate "aligned" load instruction to model in pure Go, so Load
// and AlignedLoad coincide.
func Load(ctrl []byte) [Width]byte {
	var g [Width]byte
	copy(g[:], ctrl[:Width])
	return g
}

// AlignedLoad is Load; see Load's comment.
func AlignedLoad(ctrl []byte) [Width]byte {
	return Load(ctrl)
}

// AlignedStore writes g back into ctrl.
func AlignedStore(ctrl []byte, g [Width]byte) {
	copy(ctrl[:Width], g[:])
}
