// Package sketch implements deterministic MinHash signature computation.
// See doc.go for complete package documentation.
package sketch

import (
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"math/rand"
	"strconv"
	"sync"
)

// permutationSeed fixes the PRNG stream used to derive the universal hash
// coefficients. Every process that imports this package derives the exact
// same (A, B) pair for a given P, which is the whole point: two independent
// crawler/trainer/query-server processes must agree on MinHash values without
// exchanging any state.
const permutationSeed = 1

// ErrInvalidInput is returned when MinHashUnion is called with no users.
// A signature has no meaningful "min over nothing", so this is rejected
// rather than silently returning a zero or all-max vector.
var ErrInvalidInput = errors.New("at least one user is required")

var (
	permMu    sync.Mutex
	permCache = make(map[int][2][]uint64)
)

// Permutations returns the (A, B) universal-hash coefficient vectors used to
// compute MinHash bands, memoized per P. A[b] is drawn from the full uint64
// range, B[b] from [1, 2^64-1] so the additive term is never zero.
func Permutations(p int) (a, b []uint64) {
	permMu.Lock()
	defer permMu.Unlock()

	if cached, ok := permCache[p]; ok {
		return cached[0], cached[1]
	}

	gen := rand.New(rand.NewSource(permutationSeed))
	a = make([]uint64, p)
	b = make([]uint64, p)
	for i := 0; i < p; i++ {
		a[i] = gen.Uint64()
		b[i] = gen.Uint64()
		if b[i] == 0 {
			b[i] = 1
		}
	}

	permCache[p] = [2][]uint64{a, b}
	return a, b
}

// userHashPrefix returns x(u): the little-endian uint32 formed from the first
// four bytes of SHA1(utf8(strconv(u))).
func userHashPrefix(u int64) uint32 {
	sum := sha1.Sum([]byte(strconv.FormatInt(u, 10)))
	return binary.LittleEndian.Uint32(sum[:4])
}

// MinHash computes the P-band signature for a single user id. Band b is
// (A[b]*x + B[b]) mod 2^64, computed as plain uint64 arithmetic — Go wraps
// unsigned overflow for us, so this is the modulus for free.
func MinHash(u int64, p int) []uint64 {
	a, b := Permutations(p)
	x := uint64(userHashPrefix(u))

	out := make([]uint64, p)
	for i := 0; i < p; i++ {
		out[i] = a[i]*x + b[i]
	}
	return out
}

// MinHashUnion computes the signature of an item from the set of users that
// interacted with it: the element-wise minimum, across all users, of their
// per-band MinHash values. Returns ErrInvalidInput for an empty user set —
// there is no sensible signature for an item nobody touched.
func MinHashUnion(users []int64, p int) ([]uint64, error) {
	if len(users) == 0 {
		return nil, ErrInvalidInput
	}

	union := MinHash(users[0], p)
	for _, u := range users[1:] {
		h := MinHash(u, p)
		for b := 0; b < p; b++ {
			if h[b] < union[b] {
				union[b] = h[b]
			}
		}
	}
	return union, nil
}

// Diff identifies the bands where old strictly exceeds new, i.e. the bands
// whose posting-list membership must move because the signature tightened.
// Ties (old[b] == new[b]) are excluded: nothing needs to change for a band
// whose value didn't move. The returned slices are aligned: bands[i] is the
// band index, oldVals[i]/newVals[i] are old[bands[i]] and new[bands[i]].
func Diff(old, new []uint64) (bands []int, oldVals, newVals []uint64) {
	n := len(old)
	if len(new) < n {
		n = len(new)
	}

	for b := 0; b < n; b++ {
		if old[b] > new[b] {
			bands = append(bands, b)
			oldVals = append(oldVals, old[b])
			newVals = append(newVals, new[b])
		}
	}
	return bands, oldVals, newVals
}

// Min returns the element-wise minimum of old and new, i.e. the updated
// signature after folding in a new observation. Both slices must have equal
// length; the caller (internal/index) always holds that invariant since both
// come from signatures of the same configured band count.
func Min(old, new []uint64) []uint64 {
	out := make([]uint64, len(old))
	for b := range out {
		v := old[b]
		if new[b] < v {
			v = new[b]
		}
		out[b] = v
	}
	return out
}
