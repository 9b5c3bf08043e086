// Package duplex implements a minimal Merlin-style strobe transcript: a TurboSHAKE128 sponge
// that absorbs labeled messages and squeezes labeled pseudorandom challenges, the way Merlin
// builds on STROBE. It is the "duplex transcript" collaborator that decree.Transcript consumes
// through AppendMessage/ChallengeBytes and nothing else.
package duplex

import (
	"github.com/trailofbits/decree/hazmat/turboshake"
)

const chainValueSize = 64

const (
	dsChain     = 0x20
	dsChallenge = 0x21

	opInit      = 0x10
	opAppend    = 0x11
	opChallenge = 0x12
	opChain     = 0x13
)

// Transcript is a labeled-input/labeled-challenge sponge transcript, owned exclusively by its
// caller. The zero value is not usable; construct with New.
type Transcript struct {
	h turboshake.Hasher
}

// New returns a new Transcript domain-separated by name.
func New(name []byte) *Transcript {
	t := &Transcript{h: turboshake.New(dsChain)}
	t.writeOpLabel(opInit, name)
	return t
}

// AppendMessage absorbs message into the transcript under label.
func (t *Transcript) AppendMessage(label, message []byte) {
	t.writeOpLabel(opAppend, label)
	t.writeLengthEncode(message)
}

// ChallengeBytes fills dest with pseudorandom output that is a deterministic function of every
// message appended so far, then ratchets the transcript forward so the bytes written into dest
// cannot be recovered from the transcript's subsequent state.
func (t *Transcript) ChallengeBytes(label string, dest []byte) {
	t.writeOpLabel(opChallenge, []byte(label))
	t.writeLeftEncode(uint64(len(dest)))

	// Squeeze the caller's output from an independent clone so the original sponge state is
	// still available, unsqueezed, to derive the chain value below.
	out := t.h.Clone()
	out.SetDomain(dsChallenge)
	_, _ = out.Read(dest)

	var cv [chainValueSize]byte
	_, _ = t.h.Read(cv[:])

	t.resetChain(cv[:])
}

// resetChain reinitializes the sponge, keyed by chainValue, ready to absorb the next phase.
func (t *Transcript) resetChain(chainValue []byte) {
	t.h.Reset(dsChain)
	t.writeOpLabel(opChain, nil)
	t.writeLengthEncode(chainValue)
}

// writeOpLabel writes op || length_encode(label) to the sponge.
func (t *Transcript) writeOpLabel(op byte, label []byte) {
	_, _ = t.h.Write([]byte{op})
	t.writeLengthEncode(label)
}

// writeLeftEncode writes left_encode(x) as defined in NIST SP 800-185.
func (t *Transcript) writeLeftEncode(x uint64) {
	var buf [9]byte

	if x == 0 {
		buf[0] = 1
		_, _ = t.h.Write(buf[:2])
		return
	}

	i := 8
	v := x
	for v > 0 {
		buf[i] = byte(v)
		v >>= 8
		i--
	}
	buf[i] = byte(8 - i)
	_, _ = t.h.Write(buf[i:9])
}

// writeLengthEncode writes length_encode(x) = left_encode(len(x)) || x.
func (t *Transcript) writeLengthEncode(data []byte) {
	t.writeLeftEncode(uint64(len(data)))
	if len(data) > 0 {
		_, _ = t.h.Write(data)
	}
}
