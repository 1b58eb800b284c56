// Package codec provides the compact byte encoding for posting lists and signatures.
// See doc.go for complete package documentation.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"
)

// Encode compresses xs into a compact, round-trippable byte representation.
// A nil or empty xs encodes to a valid (non-nil) byte slice decoding back to
// an empty slice, never to absent/nil bytes — callers use the IndexStore's
// own absent-vs-present distinction for "no value written yet".
func Encode(xs []int64) ([]byte, error) {
	if xs == nil {
		xs = []int64{}
	}

	raw, err := json.Marshal(xs)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

// Decode inverts Encode. It is the sole place signature/posting-list bytes
// are turned back into integers — the write path and the read path always
// go through the same Decode, so there is no risk of a raw-bytes shortcut on
// one side going stale relative to a compression change on the other.
func Decode(data []byte) ([]int64, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decode: %w", err)
	}

	var xs []int64
	if err := json.Unmarshal(raw, &xs); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return xs, nil
}

// EncodeUint64 is Encode specialized for signature vectors, whose elements
// are uint64 band values rather than int64 item ids. Kept as a distinct
// function (rather than a generic) so call sites read unambiguously about
// which kind of list they're handling.
func EncodeUint64(xs []uint64) ([]byte, error) {
	if xs == nil {
		xs = []uint64{}
	}

	raw, err := json.Marshal(xs)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

// DecodeUint64 inverts EncodeUint64.
func DecodeUint64(data []byte) ([]uint64, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decode: %w", err)
	}

	var xs []uint64
	if err := json.Unmarshal(raw, &xs); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return xs, nil
}
