// Package codec provides the compact byte encoding used for recohub's posting
// lists and signature vectors.
//
// # Overview
//
// Every integer list that crosses the store boundary goes through this
// package: posting lists (int64 item ids) and signature vectors (uint64 band
// values). The realization is JSON-serialize then Snappy-compress, chosen for
// cheap encode/decode on the index hot path and compact storage for long
// posting lists.
//
// # Round-Trip Law
//
// The one law callers rely on, within a single running deployment:
//
//	Decode(Encode(xs)) == xs     for any finite list of 64-bit integers
//
// Byte stability across versions is NOT promised; only the round trip is.
// Both directions of every key family go through this package symmetrically,
// so a change of realization can never strand one side.
//
// # Core Functions
//
// Encode / Decode: int64 lists (posting lists)
//   - nil and empty inputs encode to a valid byte slice decoding back
//     to an empty list, never to absent bytes; callers use the store's
//     own absent-vs-present distinction for "never written"
//
// EncodeUint64 / DecodeUint64: uint64 lists (signature vectors)
//   - Kept as distinct functions rather than a generic so call sites
//     read unambiguously about which kind of list they handle
//
// # Usage Examples
//
//	enc, err := codec.Encode([]int64{100, 101})
//	// ... store enc ...
//	list, err := codec.Decode(enc)
//
// # Testing
//
// The package's tests pin the round-trip law over boundary values (empty,
// nil, MaxInt64/MinInt64, MaxUint64) and reject garbage bytes.
//
// Running tests:
//
//	go test ./internal/codec/...
//
// # See Also
//
// Related packages:
//   - internal/index: Encodes everything it writes through this package
//   - internal/query: Decodes everything it reads through this package
package codec
