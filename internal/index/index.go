// Package index implements the online MinHash maintenance protocol.
// See doc.go for complete package documentation.
package index

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/craftsangjae/recohub-go/internal/codec"
	"github.com/craftsangjae/recohub-go/internal/sketch"
	"github.com/craftsangjae/recohub-go/internal/store"
)

// ErrInvalidInput is sketch.ErrInvalidInput, re-exported so callers of this
// package don't need to import internal/sketch just to check the error.
var ErrInvalidInput = sketch.ErrInvalidInput

// Engine maintains item signature vectors and band posting lists atop a
// store.Store, rewriting only the posting lists whose band value actually
// moved on each observation.
//
// Engine characteristics:
//   - Exclusive owner of signature and posting-list mutations; the
//     query path reads the same keys but never writes
//   - Write cost proportional to the number of tightened bands, not
//     to the configured signature width
//   - Delete-before-MSet write ordering for crash safety
//
// The zero value is not usable; construct with New. The bands count must
// match the width used everywhere else in the deployment (the sig_size
// configuration value).
type Engine struct {
	store store.Store
	bands int
}

// New returns an Engine maintaining bands-wide signatures over s.
func New(s store.Store, bands int) *Engine {
	return &Engine{store: s, bands: bands}
}

func itemKey(item int64) string {
	return strconv.FormatInt(item, 10)
}

func postingKey(band int, value uint64) string {
	return fmt.Sprintf("sig%d-%d", band, value)
}

// UpdateItem folds a new observation (item was touched by users) into the
// index.
//
// Behavior:
//   - Computes the users' union signature and min-folds it into the
//     item's stored signature, band by band
//   - First observation of an item appends it to every band's posting
//     list; later observations move it only between the lists of bands
//     that strictly tightened
//   - A no-change observation returns without writing anything
//   - Deletes posting lists the move emptied, then writes the mutated
//     lists and the new signature (see doc.go, Crash Safety)
//
// Idempotency:
//   - Calling UpdateItem twice in a row with the same arguments leaves
//     the store in the same state as calling it once; the second call's
//     diff against the now-current signature is empty
//
// Thread-safety:
//   - NOT safe for concurrent calls against the same item; callers
//     serialize per item (see doc.go, Concurrency)
//
// Parameters:
//   - ctx: Cancellation and deadline control for the store round trips
//   - item: The item id whose signature absorbs the observation
//   - users: The user ids observed interacting with item; at least one
//     is required
//
// Returns:
//   - nil on success, including the no-change fast path
//   - ErrInvalidInput if users is empty
//   - A wrapped store or codec error otherwise
//
// Example:
//
//	if err := eng.UpdateItem(ctx, repoID, userID); err != nil {
//	    log.Printf("update failed: %v", err)
//	}
func (e *Engine) UpdateItem(ctx context.Context, item int64, users ...int64) error {
	u, err := sketch.MinHashUnion(users, e.bands)
	if err != nil {
		return err
	}

	raw, err := e.store.Get(ctx, itemKey(item))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return e.insertNewItem(ctx, item, u)
		}
		return fmt.Errorf("get signature: %w", err)
	}

	old, err := codec.DecodeUint64(raw)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	return e.updateExistingItem(ctx, item, old, u)
}

// insertNewItem handles the first observation of item: every band's
// posting list gains item, regardless of whether another item already
// occupies that (band, value) slot.
func (e *Engine) insertNewItem(ctx context.Context, item int64, u []uint64) error {
	keys := make([]string, len(u))
	for b, v := range u {
		keys[b] = postingKey(b, v)
	}

	raws, err := e.store.MGet(ctx, keys)
	if err != nil {
		return fmt.Errorf("mget posting lists: %w", err)
	}

	mset := make(map[string][]byte, len(keys)+1)
	for b, raw := range raws {
		list, err := decodeList(raw)
		if err != nil {
			return fmt.Errorf("decode posting list %s: %w", keys[b], err)
		}
		enc, err := codec.Encode(appendIfAbsent(list, item))
		if err != nil {
			return fmt.Errorf("encode posting list %s: %w", keys[b], err)
		}
		mset[keys[b]] = enc
	}

	sigEnc, err := codec.EncodeUint64(u)
	if err != nil {
		return fmt.Errorf("encode signature: %w", err)
	}
	mset[itemKey(item)] = sigEnc

	if err := e.store.MSet(ctx, mset); err != nil {
		return fmt.Errorf("mset: %w", err)
	}
	return nil
}

// updateExistingItem handles a repeat observation: only the bands whose
// value actually moved need their posting lists rewritten.
func (e *Engine) updateExistingItem(ctx context.Context, item int64, old, u []uint64) error {
	bands, oldVals, newVals := sketch.Diff(old, u)
	if len(bands) == 0 {
		// old already <= u band-wise; nothing in the index needs to change.
		return nil
	}

	removeKeys := make([]string, len(bands))
	appendKeys := make([]string, len(bands))
	for i, b := range bands {
		removeKeys[i] = postingKey(b, oldVals[i])
		appendKeys[i] = postingKey(b, newVals[i])
	}

	combined := append(append([]string{}, removeKeys...), appendKeys...)
	raws, err := e.store.MGet(ctx, combined)
	if err != nil {
		return fmt.Errorf("mget posting lists: %w", err)
	}

	lists := make(map[string][]int64, len(combined))
	for i, k := range combined {
		if _, seen := lists[k]; seen {
			continue
		}
		list, err := decodeList(raws[i])
		if err != nil {
			return fmt.Errorf("decode posting list %s: %w", k, err)
		}
		lists[k] = list
	}

	for _, k := range removeKeys {
		lists[k] = removeIfPresent(lists[k], item)
	}
	for _, k := range appendKeys {
		lists[k] = appendIfAbsent(lists[k], item)
	}

	var toDelete []string
	mset := make(map[string][]byte, len(lists)+1)
	for k, list := range lists {
		if len(list) == 0 {
			toDelete = append(toDelete, k)
			continue
		}
		enc, err := codec.Encode(list)
		if err != nil {
			return fmt.Errorf("encode posting list %s: %w", k, err)
		}
		mset[k] = enc
	}

	newSig := sketch.Min(old, u)
	sigEnc, err := codec.EncodeUint64(newSig)
	if err != nil {
		return fmt.Errorf("encode signature: %w", err)
	}
	mset[itemKey(item)] = sigEnc

	// Delete emptied posting lists before writing the mutated ones and the
	// new signature: a crash between the two calls leaves a stale posting
	// entry rather than a missing one.
	if len(toDelete) > 0 {
		if err := e.store.Delete(ctx, toDelete...); err != nil {
			return fmt.Errorf("delete emptied posting lists: %w", err)
		}
	}
	if err := e.store.MSet(ctx, mset); err != nil {
		return fmt.Errorf("mset: %w", err)
	}
	return nil
}

func decodeList(raw []byte) ([]int64, error) {
	if raw == nil {
		return nil, nil
	}
	return codec.Decode(raw)
}

func appendIfAbsent(list []int64, item int64) []int64 {
	for _, v := range list {
		if v == item {
			return list
		}
	}
	return append(list, item)
}

// removeIfPresent removes item from list if present, tolerating its
// absence — a duplicate UpdateItem call must not error on a
// second removal attempt.
func removeIfPresent(list []int64, item int64) []int64 {
	for i, v := range list {
		if v == item {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
