// Package decree formalizes the discipline of Fiat–Shamir transforms on top of a Merlin-style
// duplex transcript (internal/duplex). A Transcript accepts a declared set of named inputs,
// commits them in canonical sorted-label order once every input has arrived, and then issues
// declared named challenges strictly in declared order — preventing the classic Fiat–Shamir
// misuses: a forgotten input before a challenge, a reused label, or an out-of-order extraction.
package decree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/trailofbits/decree/inscribe"
	"github.com/trailofbits/decree/internal/duplex"
)

// Error kinds, the closed taxonomy of spec §7. Every public operation returns one of these,
// wrapped with fmt.Errorf("%w: ...") so callers can inspect the kind with errors.Is.
var (
	ErrInitFail         = errors.New("decree: init failed")
	ErrInvalidLabel     = errors.New("decree: invalid label")
	ErrInvalidChallenge = errors.New("decree: invalid challenge")
	ErrExtendFail       = errors.New("decree: extend failed")
	ErrGeneral          = errors.New("decree: general failure")
)

// Transcript is the labeled-input/labeled-challenge state machine. It exclusively owns the
// duplex transcript beneath it; the zero value is not usable, construct with New.
type Transcript struct {
	inputs     []string // canonical (sorted) declared input labels for the current phase
	challenges []string // remaining declared challenge labels, consumed head-first
	values     map[string][]byte
	duplex     *duplex.Transcript
	committed  bool
}

// New constructs a Transcript. name domain-separates this protocol from every other; inputs is a
// non-empty set of unique input labels; challenges is a non-empty ordered sequence of challenge
// labels.
func New(name string, inputs, challenges []string) (*Transcript, error) {
	sorted, err := canonicalInputs(inputs)
	if err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		return nil, fmt.Errorf("%w: must specify at least one challenge", ErrInitFail)
	}

	return &Transcript{
		inputs:     sorted,
		challenges: append([]string(nil), challenges...),
		values:     make(map[string][]byte, len(sorted)),
		duplex:     duplex.New([]byte(name)),
	}, nil
}

// canonicalInputs validates and sorts a candidate input-label set, per the rules shared by New
// and Extend.
func canonicalInputs(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: must specify at least one input", ErrInitFail)
	}

	sorted := append([]string(nil), inputs...)
	sort.Strings(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return nil, fmt.Errorf("%w: duplicate input label %q", ErrInitFail, sorted[i])
		}
	}
	return sorted, nil
}

// Add absorbs value's inscription (via inscribe.Digest) under label.
func (t *Transcript) Add(label string, value any) error {
	d, err := inscribe.Digest(value)
	if err != nil {
		return fmt.Errorf("%w: inscription failed: %v", ErrGeneral, err)
	}
	return t.addInput(label, d[:])
}

// AddSerial absorbs value's canonical raw-serialized bytes (via inscribe.RawSerialize) under
// label.
func (t *Transcript) AddSerial(label string, value any) error {
	b, err := inscribe.RawSerialize(value)
	if err != nil {
		return fmt.Errorf("%w: serialization failed: %v", ErrGeneral, err)
	}
	return t.addInput(label, b)
}

// AddBytes absorbs a raw byte slice directly under label, with no serialization or inscription
// step.
func (t *Transcript) AddBytes(label string, value []byte) error {
	return t.addInput(label, append([]byte(nil), value...))
}

// addInput is the common path add, add_serial, and add_bytes all reduce to.
func (t *Transcript) addInput(label string, value []byte) error {
	if t.committed {
		return fmt.Errorf("%w: cannot add values after commitment", ErrGeneral)
	}
	if !contains(t.inputs, label) {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	if _, ok := t.values[label]; ok {
		return fmt.Errorf("%w: label %q already used", ErrInvalidLabel, label)
	}

	t.values[label] = value

	if len(t.values) == len(t.inputs) {
		t.commit()
	}
	return nil
}

// commit appends every declared input's value to the duplex transcript in canonical (sorted)
// label order and marks the phase committed. It is only ever called once every declared input
// has a recorded value, so the lookups below cannot miss.
func (t *Transcript) commit() {
	for _, label := range t.inputs {
		t.duplex.AppendMessage([]byte(label), t.values[label])
	}
	t.committed = true
}

// GetChallenge writes len(dest) pseudorandom bytes into dest for the named challenge, and pops
// label from the head of the remaining challenge list. label must be the current head of that
// list.
func (t *Transcript) GetChallenge(label string, dest []byte) error {
	if !t.committed {
		return fmt.Errorf("%w: missing transcript parameters", ErrGeneral)
	}
	if len(t.challenges) == 0 {
		return fmt.Errorf("%w: no remaining challenges", ErrInvalidChallenge)
	}
	if !contains(t.challenges, label) {
		return fmt.Errorf("%w: requested challenge %q not in spec", ErrInvalidChallenge, label)
	}
	if t.challenges[0] != label {
		return fmt.Errorf("%w: challenge order incorrect", ErrInvalidChallenge)
	}

	t.duplex.ChallengeBytes(label, dest)
	t.challenges = t.challenges[1:]

	return nil
}

// Extend transitions a fully-drained phase (every declared challenge emitted, still committed)
// into a new one, preserving the underlying duplex transcript's state.
func (t *Transcript) Extend(inputs, challenges []string) error {
	if len(t.challenges) != 0 || !t.committed {
		return fmt.Errorf("%w: cannot extend until all challenges generated", ErrExtendFail)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: must specify at least one input", ErrExtendFail)
	}
	if len(challenges) == 0 {
		return fmt.Errorf("%w: must specify at least one challenge", ErrExtendFail)
	}

	sorted, err := canonicalInputs(inputs)
	if err != nil {
		return err
	}

	t.inputs = sorted
	t.challenges = append([]string(nil), challenges...)
	t.values = make(map[string][]byte, len(sorted))
	t.committed = false

	return nil
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
