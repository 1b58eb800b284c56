// Package query implements top-k similar-item retrieval.
// See doc.go for complete package documentation.
package query

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/exp/slices"

	"github.com/craftsangjae/recohub-go/internal/codec"
	"github.com/craftsangjae/recohub-go/internal/store"
)

// ErrNotFound is returned by Recommend when the query item has no
// signature in the store.
var ErrNotFound = errors.New("item not found")

func itemKey(item int64) string {
	return strconv.FormatInt(item, 10)
}

func postingKey(band int, value uint64) string {
	return fmt.Sprintf("sig%d-%d", band, value)
}

// Recommend returns up to k item ids most similar to item.
//
// Behavior:
//   - Fetches every band's posting list at item's signature value in a
//     single MGet round trip
//   - Ranks candidates by collision count, an unbiased proxy for
//     Jaccard similarity between user sets
//   - Ties broken deterministically: higher count first, then lower
//     item id first
//   - item itself is excluded from the result
//   - Returns fewer than k ids when fewer candidates collide at all
//
// Parameters:
//   - ctx: Cancellation and deadline control for the store round trips
//   - s: The store holding signatures and posting lists
//   - item: The query item id
//   - k: Maximum number of recommendations to return
//
// Returns:
//   - Up to k item ids, most similar first
//   - ErrNotFound if item has no stored signature
//   - A wrapped store or codec error otherwise
//
// Example:
//
//	ids, err := query.Recommend(ctx, s, 100, 10)
//	if errors.Is(err, query.ErrNotFound) {
//	    // unknown item
//	}
func Recommend(ctx context.Context, s store.Store, item int64, k int) ([]int64, error) {
	raw, err := s.Get(ctx, itemKey(item))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get signature: %w", err)
	}

	sig, err := codec.DecodeUint64(raw)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}

	keys := make([]string, len(sig))
	for b, v := range sig {
		keys[b] = postingKey(b, v)
	}

	raws, err := s.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("mget posting lists: %w", err)
	}

	counts := make(map[int64]int)
	for _, r := range raws {
		if r == nil {
			continue
		}
		list, err := codec.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decode posting list: %w", err)
		}
		for _, id := range list {
			counts[id]++
		}
	}

	candidates := make([]int64, 0, len(counts))
	for id := range counts {
		candidates = append(candidates, id)
	}

	slices.SortStableFunc(candidates, func(a, b int64) int {
		if ca, cb := counts[a], counts[b]; ca != cb {
			return cb - ca
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	})

	// item collides with itself in every band it occupies, so it is
	// filtered explicitly rather than relied upon to sort first.
	out := make([]int64, 0, k)
	for _, id := range candidates {
		if id == item {
			continue
		}
		out = append(out, id)
		if len(out) == k {
			break
		}
	}
	return out, nil
}
