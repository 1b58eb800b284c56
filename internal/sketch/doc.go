// Package sketch implements deterministic MinHash signature computation over
// bipartite item/user interactions, the arithmetic core every other recohub
// component builds on.
//
// # Overview
//
// A signature is a fixed-length vector of P uint64 band values. Every band is
// an independent universal hash permutation of the user id; the signature of
// an item is the element-wise minimum, over all users who interacted with
// that item, of each user's per-band hash. Two items with high Jaccard
// similarity between their user sets collide on many bands, which is the
// property internal/index and internal/query build the secondary index and
// the top-k query on.
//
// # Hash Construction
//
// The per-band hash of a user id u is classic universal hashing over the
// 2^64 ring:
//
//	x(u)     = little-endian uint32 of the first 4 bytes of SHA1(utf8(u))
//	h_b(u)   = A[b]*x(u) + B[b]          (mod 2^64, via native wraparound)
//	S[i][b]  = min over u in users(i) of h_b(u)
//
// The coefficient vectors (A, B) are drawn once from a PRNG seeded with a
// fixed constant and memoized per P. Every process that imports this
// package derives byte-identical signatures for the same user id, so the
// crawler, trainer and query server agree without exchanging any state.
//
// # Core Functions
//
// Permutations: The memoized (A, B) coefficient vectors for a width P
//
// MinHash: One user's full P-band signature
//
// MinHashUnion: An item's signature from its user set
//   - Rejects an empty user set with ErrInvalidInput
//
// Diff: The bands where an old signature strictly exceeds a new one
//   - Identifies exactly the posting lists an update must rewrite
//   - Ties are excluded; an equal band needs no index change
//
// Min: The element-wise minimum of two signatures
//   - The fold applied when an observation merges into a stored sketch
//
// # Determinism
//
// Everything in this package is a pure function of its inputs plus the
// fixed seed. There is no configuration, no randomness at call time, and
// no I/O; the package is safe for concurrent use throughout.
//
// # Usage Examples
//
//	sig, err := sketch.MinHashUnion([]int64{42, 7}, 128)
//	if err != nil {
//	    // empty user set
//	}
//
//	bands, oldVals, newVals := sketch.Diff(stored, sig)
//	for i, b := range bands {
//	    // move the item from (b, oldVals[i]) to (b, newVals[i])
//	}
//
// # Testing
//
// The package's tests pin down:
//
//   - Cross-call determinism of MinHash for a fixed user and P
//   - Memoization stability of Permutations
//   - MinHashUnion equals the bandwise min over its users
//   - Diff excluding ties and ignoring loosened bands
//
// Running tests:
//
//	go test ./internal/sketch/...
//
// # See Also
//
// Related packages:
//   - internal/index: Folds signatures into the posting-list index
//   - internal/query: Compares signatures via posting-list collisions
package sketch
