package inscribe

import (
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// serializeMode is CBOR Core Deterministic Encoding (RFC 8949 §4.2.1): canonical map key
// ordering, shortest-form integers and floats, no indefinite-length items. It is this package's
// external raw-serializer (spec §6), standing in for the Rust crate's bcs.
var serializeMode = sync.OnceValue(func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("inscribe: invalid cbor encoding options: %v", err))
	}
	return mode
})

// RawSerialize produces value's canonical byte encoding for Serialize-handled fields. It is also
// the raw-serializer behind decree.Transcript.AddSerial.
func RawSerialize(value any) ([]byte, error) {
	b, err := serializeMode().Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("inscribe: raw serialize: %w", err)
	}
	return b, nil
}
