// Package mem provides small memory helpers shared by the hazmat sponge implementations.
package mem

// XORInPlace sets dst[i] ^= src[i] for each i. Len(src) must be >= len(dst).
func XORInPlace(dst, src []byte) {
	for i, s := range src[:len(dst)] {
		dst[i] ^= s
	}
}
