// Package keccak provides a portable implementation of the Keccak-p[1600,12] permutation.
//
// Keccak-p[1600,12] is the reduced-round permutation underlying TurboSHAKE and KangarooTwelve
// (RFC 9861): the full 24-round Keccak-f[1600] permutation restricted to its last 12 rounds.
package keccak

import (
	"encoding/binary"
	"math/bits"
)

// roundConstants holds the last 12 of the 24 standard Keccak-f[1600] round constants, matching
// the "iota" step of Keccak-p[1600,12].
var roundConstants = [12]uint64{
	0x000000008000808b,
	0x800000000000008b,
	0x8000000000008089,
	0x8000000000008003,
	0x8000000000008002,
	0x8000000000000080,
	0x000000000000800a,
	0x800000008000000a,
	0x8000000080008081,
	0x8000000000008080,
	0x0000000080000001,
	0x8000000080008008,
}

// rotationOffsets holds the rho-step rotation amount for each of the 24 non-fixed lanes, visited
// in pi-permutation order.
var rotationOffsets = [24]uint{
	1, 3, 6, 10, 15, 21, 28, 36, 45, 55, 2, 14,
	27, 41, 56, 8, 25, 43, 62, 18, 39, 61, 20, 44,
}

// piLanes holds the destination lane index for each of the 24 non-fixed lanes, in the same
// traversal order as rotationOffsets.
var piLanes = [24]uint{
	10, 7, 11, 17, 18, 3, 5, 16, 8, 21, 24, 4,
	15, 23, 19, 13, 12, 2, 20, 14, 22, 9, 6, 1,
}

// P1600 applies the Keccak-p[1600,12] permutation to the state in place.
func P1600(state *[200]byte) {
	var a [25]uint64
	for i := range a {
		a[i] = binary.LittleEndian.Uint64(state[i*8:])
	}

	var c [5]uint64
	for round := range roundConstants {
		// theta
		for i := range c {
			c[i] = a[i] ^ a[i+5] ^ a[i+10] ^ a[i+15] ^ a[i+20]
		}
		for i := range 5 {
			t := c[(i+4)%5] ^ bits.RotateLeft64(c[(i+1)%5], 1)
			for j := 0; j < 25; j += 5 {
				a[j+i] ^= t
			}
		}

		// rho and pi
		t := a[1]
		for i, lane := range piLanes {
			c[0] = a[lane]
			a[lane] = bits.RotateLeft64(t, int(rotationOffsets[i]))
			t = c[0]
		}

		// chi
		for j := 0; j < 25; j += 5 {
			copy(c[:], a[j:j+5])
			for i := range 5 {
				a[j+i] ^= ^c[(i+1)%5] & c[(i+2)%5]
			}
		}

		// iota
		a[0] ^= roundConstants[round]
	}

	for i := range a {
		binary.LittleEndian.PutUint64(state[i*8:], a[i])
	}
}
