package inscribe

import "golang.org/x/crypto/sha3"

// tupleHash256 implements TupleHash256 from NIST SP 800-185, built directly on cSHAKE256 with
// hand-rolled framing: encode_string/right_encode are length-tagging helpers, not a third-party
// TupleHash implementation, so the absorption order and length-tagging semantics required by
// spec §4.1 step 3 are pinned exactly.
func tupleHash256(customization []byte, elements [][]byte) [64]byte {
	h := sha3.NewCShake256(tupleHashFunctionName, customization)
	for _, e := range elements {
		h.Write(encodeString(e))
	}
	h.Write(rightEncode(64 * 8))

	var out [64]byte
	h.Read(out[:])
	return out
}

// tupleHashFunctionName is the NIST-fixed function-name string "TupleHash"; it is what
// distinguishes cSHAKE(TupleHash, S) from a bare cSHAKE keyed only by the customization string.
var tupleHashFunctionName = []byte("TupleHash")

// leftEncode writes left_encode(x) per NIST SP 800-185: the minimal big-endian encoding of x,
// preceded by a single byte giving that encoding's length.
func leftEncode(x uint64) []byte {
	if x == 0 {
		return []byte{1, 0}
	}

	var buf [9]byte
	i := 8
	for v := x; v > 0; v >>= 8 {
		buf[i] = byte(v)
		i--
	}
	n := 8 - i
	out := make([]byte, 0, n+1)
	out = append(out, byte(n))
	out = append(out, buf[i+1:9]...)
	return out
}

// rightEncode writes right_encode(x) per NIST SP 800-185: the same minimal big-endian encoding,
// followed by a single byte giving that encoding's length.
func rightEncode(x uint64) []byte {
	if x == 0 {
		return []byte{0, 1}
	}

	var buf [9]byte
	i := 8
	for v := x; v > 0; v >>= 8 {
		buf[i] = byte(v)
		i--
	}
	n := 8 - i
	out := make([]byte, 0, n+1)
	out = append(out, buf[i+1:9]...)
	out = append(out, byte(n))
	return out
}

// encodeString writes encode_string(S) = left_encode(bit length of S) || S.
func encodeString(s []byte) []byte {
	encoded := leftEncode(uint64(len(s)) * 8)
	return append(encoded, s...)
}
