package inscribe

import (
	"bytes"
	"errors"
	"testing"
)

// Point mirrors spec §8 scenario S3: two Serialize-handled fields with sort-name overrides that
// invert their declaration order (y sorts before x).
type Point struct {
	X int32 `decree:"serialize,sort=input_2"`
	Y int32 `decree:"serialize,sort=input_1"`
}

// pointReversed declares the same fields in the opposite lexical order, with the same sort keys,
// to exercise P4's field-order independence.
type pointReversed struct {
	Y int32 `decree:"serialize,sort=input_1"`
	X int32 `decree:"serialize,sort=input_2"`
}

// Mark keeps pointReversed under Point's mark, so only the declaration order differs.
func (pointReversed) Mark() string { return "Point" }

func TestInscriptionOrderingS3(t *testing.T) {
	p := Point{X: 7, Y: 3}

	got, err := Digest(p)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	yBytes, err := RawSerialize(p.Y)
	if err != nil {
		t.Fatalf("RawSerialize(Y): %v", err)
	}
	xBytes, err := RawSerialize(p.X)
	if err != nil {
		t.Fatalf("RawSerialize(X): %v", err)
	}

	want := tupleHash256([]byte("Point"), [][]byte{yBytes, xBytes, nil})

	if got != want {
		t.Fatalf("digest mismatch:\ngot  %x\nwant %x", got, want)
	}
}

// Outer mirrors spec §8 scenario S4: a record of two Point-typed, Recurse-handled fields plus a
// type-level additional-data override.
type Outer struct {
	A Point
	B Point
}

func (Outer) Mark() string { return "InscribeTest" }

func (Outer) Additional() ([]byte, error) { return []byte("Additional data!"), nil }

func TestNestedInscriptionWithAdditionalDataS4(t *testing.T) {
	o := Outer{A: Point{X: 7, Y: 3}, B: Point{X: 11, Y: 2}}

	got, err := Digest(o)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	aDigest, err := Digest(o.A)
	if err != nil {
		t.Fatalf("Digest(A): %v", err)
	}
	bDigest, err := Digest(o.B)
	if err != nil {
		t.Fatalf("Digest(B): %v", err)
	}

	want := tupleHash256([]byte("InscribeTest"), [][]byte{aDigest[:], bDigest[:], []byte("Additional data!")})

	if got != want {
		t.Fatalf("digest mismatch:\ngot  %x\nwant %x", got, want)
	}
}

func TestDigestFieldOrderIndependenceP4(t *testing.T) {
	a := Point{X: 9, Y: 40}
	b := pointReversed{X: 9, Y: 40}

	da, err := Digest(a)
	if err != nil {
		t.Fatalf("Digest(a): %v", err)
	}
	db, err := Digest(b)
	if err != nil {
		t.Fatalf("Digest(b): %v", err)
	}

	if da != db {
		t.Fatalf("declaration order changed the digest despite identical sort keys: %x != %x", da, db)
	}
}

// pointRenamed changes x's sort key so that x now sorts before y, which must change the digest
// per P4. It keeps Point's mark, so the sort key is the only difference.
type pointRenamed struct {
	X int32 `decree:"serialize,sort=input_0"`
	Y int32 `decree:"serialize,sort=input_1"`
}

func (pointRenamed) Mark() string { return "Point" }

func TestDigestChangesWithSortKeyP4(t *testing.T) {
	original, err := Digest(Point{X: 9, Y: 40})
	if err != nil {
		t.Fatalf("Digest(original): %v", err)
	}
	renamed, err := Digest(pointRenamed{X: 9, Y: 40})
	if err != nil {
		t.Fatalf("Digest(renamed): %v", err)
	}

	if original == renamed {
		t.Fatal("changing a sort key did not change the digest")
	}
}

// pointWithSkip adds a bookkeeping field that must not influence the digest.
type pointWithSkip struct {
	X       int32  `decree:"serialize,sort=input_2"`
	Y       int32  `decree:"serialize,sort=input_1"`
	Scratch string `decree:"skip"`
}

// Mark keeps pointWithSkip under Point's mark, so only the skipped field differs.
func (pointWithSkip) Mark() string { return "Point" }

func TestSkipDoesNotInfluenceDigestP4(t *testing.T) {
	withScratch := pointWithSkip{X: 9, Y: 40, Scratch: "ignore me"}
	baseline := Point{X: 9, Y: 40}

	gotWithScratch, err := Digest(withScratch)
	if err != nil {
		t.Fatalf("Digest(withScratch): %v", err)
	}
	gotBaseline, err := Digest(baseline)
	if err != nil {
		t.Fatalf("Digest(baseline): %v", err)
	}

	if gotWithScratch != gotBaseline {
		t.Fatal("a Skip-handled field influenced the digest")
	}

	other := pointWithSkip{X: 9, Y: 40, Scratch: "something else entirely"}
	gotOther, err := Digest(other)
	if err != nil {
		t.Fatalf("Digest(other): %v", err)
	}
	if gotOther != gotWithScratch {
		t.Fatal("varying only a Skip-handled field changed the digest")
	}
}

// markedPoint and markedPointAlt are structurally identical but declare different marks, to
// exercise P5.
type markedPoint struct {
	X int32 `decree:"serialize,sort=input_2"`
	Y int32 `decree:"serialize,sort=input_1"`
}

func (markedPoint) Mark() string { return "mark-a" }

type markedPointAlt struct {
	X int32 `decree:"serialize,sort=input_2"`
	Y int32 `decree:"serialize,sort=input_1"`
}

func (markedPointAlt) Mark() string { return "mark-b" }

func TestMarkSeparationP5(t *testing.T) {
	a, err := Digest(markedPoint{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Digest(a): %v", err)
	}
	b, err := Digest(markedPointAlt{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Digest(b): %v", err)
	}

	if a == b {
		t.Fatal("differing marks produced identical digests")
	}
}

func TestDigestDeterminism(t *testing.T) {
	p := Point{X: 100, Y: -7}

	a, err := Digest(p)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	b, err := Digest(p)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	if a != b {
		t.Fatal("Digest is not deterministic")
	}
}

// duplicateSortKeys violates schema invariant S1.
type duplicateSortKeys struct {
	A int `decree:"serialize,sort=same"`
	B int `decree:"serialize,sort=same"`
}

func TestDigestRejectsDuplicateSortKeys(t *testing.T) {
	if _, err := Digest(duplicateSortKeys{A: 1, B: 2}); err == nil {
		t.Fatal("expected an error for duplicate sort keys")
	}
}

func TestDigestRejectsNonStruct(t *testing.T) {
	if _, err := Digest(42); !errors.Is(err, ErrNotInscribable) {
		t.Fatalf("expected ErrNotInscribable, got %v", err)
	}
}

func TestDigestRejectsNilPointer(t *testing.T) {
	var p *Point
	if _, err := Digest(p); !errors.Is(err, ErrNotInscribable) {
		t.Fatalf("expected ErrNotInscribable, got %v", err)
	}
}

// fullyHandWritten demonstrates the Inscriber escape hatch (spec §9 option (c)): it entirely
// bypasses struct-tag reflection.
type fullyHandWritten struct {
	payload byte
}

func (f fullyHandWritten) Mark() string { return "hand-written" }

func (f fullyHandWritten) Inscription() ([Length]byte, error) {
	return tupleHash256([]byte("hand-written"), [][]byte{{f.payload}}), nil
}

func (f fullyHandWritten) Additional() ([]byte, error) { return nil, nil }

func TestInscriberEscapeHatch(t *testing.T) {
	v := fullyHandWritten{payload: 0x42}

	got, err := Digest(v)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	want, err := v.Inscription()
	if err != nil {
		t.Fatalf("Inscription: %v", err)
	}

	if got != want {
		t.Fatalf("Digest did not defer to Inscriber: %x != %x", got, want)
	}
}

func TestRawSerializeDeterministic(t *testing.T) {
	a, err := RawSerialize(Point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("RawSerialize: %v", err)
	}
	b, err := RawSerialize(Point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("RawSerialize: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("RawSerialize is not deterministic")
	}
}
