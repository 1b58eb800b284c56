// Package query implements recohub's top-k similar-item retrieval, the read
// side of the MinHash index.
//
// # Overview
//
// Given a query item, the package looks up its stored signature, fetches the
// posting list for every band's (band, value) pair in one round trip, and
// ranks candidate items by how many bands they collide on. The collision
// count is an unbiased proxy for Jaccard similarity between the items' user
// sets, so the top of the ranking is the recommendation result.
//
// # Retrieval Workflow
//
// One Recommend call, end to end:
//
//  1. Get and decode the query item's signature; absent means ErrNotFound.
//  2. MGet the posting list at sig{b}-{S[b]} for every band b.
//  3. Flatten the decoded lists into a multiset and count collisions
//     per candidate item id.
//  4. Sort by count descending, tie-broken by ascending item id, so
//     results are deterministic across calls and processes.
//  5. Drop the query item itself (it trivially collides on every band
//     it occupies) and return the next k candidates.
//
// # Read Path Discipline
//
// Posting-list and signature bytes are always routed through internal/codec's
// decode, symmetrically with the write path in internal/index. There is no
// raw-bytes shortcut; a compression change can never strand one side.
//
// # Usage Examples
//
//	ids, err := query.Recommend(ctx, s, repoID, 10)
//	if errors.Is(err, query.ErrNotFound) {
//	    // unknown item → 404 at the HTTP layer
//	}
//
// # Testing
//
// The package's tests seed signatures and posting lists directly into an
// in-memory store and verify:
//
//   - Ranking follows collision counts
//   - The query item never appears in its own results
//   - Unknown items yield ErrNotFound
//
// Running tests:
//
//	go test ./internal/query/...
//
// # See Also
//
// Related packages:
//   - internal/index: The write side maintaining the posting lists
//   - cmd/queryserver: The HTTP surface over Recommend
package query
