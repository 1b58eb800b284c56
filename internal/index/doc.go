// Package index implements recohub's online MinHash maintenance protocol: the
// hot-path update that folds a new (item, users) observation into an item's
// signature vector and the band posting lists that index it.
//
// # Overview
//
// The index package owns the write side of the recommendation index. Every
// observation tightens an item's signature monotonically (element-wise min
// per band) and moves the item between posting lists for exactly the bands
// whose value changed, keeping write cost proportional to actual churn
// rather than signature width.
//
// # Architecture
//
// One update, end to end:
//
//	            UpdateItem(item, users...)
//	                      │
//	                      ▼
//	        ┌──────────────────────────┐
//	        │ sketch.MinHashUnion      │  U = bandwise min over users
//	        └────────────┬─────────────┘
//	                     ▼
//	        ┌──────────────────────────┐
//	        │ Get S_old from store     │
//	        └──────┬──────────┬────────┘
//	        absent │          │ present
//	               ▼          ▼
//	       ┌───────────┐  ┌────────────────────────┐
//	       │ new-item  │  │ diff(S_old, U)         │
//	       │ append to │  │ move item between the  │
//	       │ all bands │  │ changed bands' lists   │
//	       └─────┬─────┘  └───────────┬────────────┘
//	             │                    │
//	             ▼                    ▼
//	        ┌──────────────────────────┐
//	        │ Delete emptied lists,    │
//	        │ then MSet lists + S_new  │
//	        └──────────────────────────┘
//
// # Index Invariants
//
// At quiescence the engine maintains, for every item i, band b and value v:
//
//   - i is in the posting list at (b, v) if and only if S[i][b] == v
//   - No empty posting-list keys exist (emptied lists are deleted)
//   - S[i][b] only ever decreases (min-fold over observations)
//
// # Crash Safety
//
// The underlying store.Store offers no cross-key transaction, so UpdateItem
// orders its writes to fail safe:
//
//  1. Delete posting lists the update emptied.
//  2. MSet the mutated posting lists together with the new signature.
//
// A crash between the two calls leaves garbage (an item id lingering in a
// posting list it no longer belongs to) rather than a missing entry. A later
// re-run of the same (item, users) input is always safe: the remove step
// tolerates an already-missing id and the append step tolerates an
// already-present one, which also makes UpdateItem idempotent.
//
// # Concurrency
//
// UpdateItem assumes per-item serialization by the caller; the trainer
// drives one row at a time and the query server's write path handles one
// request per item. Concurrent UpdateItem calls against the same item are
// not supported: the store's last-writer-wins semantics on the signature
// key can leak stale posting entries in that case.
//
// # Usage Examples
//
//	eng := index.New(store.NewMemoryStore(), 128)
//
//	// First observation creates the item.
//	if err := eng.UpdateItem(ctx, 100, 42); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Later observations fold in, moving only the bands that tighten.
//	if err := eng.UpdateItem(ctx, 100, 7, 99); err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// The package's tests verify against an in-memory store:
//
//   - New items land their exact signature in every band's posting list
//   - Merges move exactly the strictly-tightened bands
//   - Repeat calls are no-ops on store state (idempotency)
//   - Sole-occupant posting lists are deleted when their item moves
//
// Running tests:
//
//	go test ./internal/index/... -cover
//
// # Metrics and Monitoring
//
// Engine metrics worth tracking in a deployment:
//
//   - index_updates_total{branch="new|diff|noop"}
//   - index_bands_moved_per_update
//   - index_update_duration_seconds
//
// # Future Enhancements
//
// Near-term:
//   - Batched multi-item updates sharing one MGet/MSet round trip
//
// Medium-term:
//   - Optimistic CAS over the signature key to support concurrent
//     writers per item (retry the plan from the read step on conflict)
//
// # See Also
//
// Related packages:
//   - internal/sketch: The MinHash arithmetic the engine builds on
//   - internal/codec: The byte encoding for signatures and posting lists
//   - internal/query: The read side over the same posting lists
package index
