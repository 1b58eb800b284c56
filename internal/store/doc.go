// Package store defines the abstract key-value interfaces and provides concrete
// implementations for recohub's data persistence layer, enabling pluggable
// storage backends with a consistent API for signature, posting-list and queue
// operations.
//
// # Overview
//
// The store package is the foundation of recohub's data persistence, providing
// a clean abstraction over the durable KV substrate shared by the index engine,
// the query path and the crawl broker. It defines the interface that all
// storage implementations must satisfy, ensuring consistency across different
// backends while allowing for specialized optimizations.
//
// # Architecture
//
// The package follows a layered design:
//
//	┌─────────────────────────────────────┐
//	│         Application Layer           │
//	│   (IndexEngine, Query, Broker)      │
//	└─────────────────────────────────────┘
//	                 │
//	                 ▼
//	┌─────────────────────────────────────┐
//	│          Store Interface            │
//	│  (Get/MGet/MSet/Delete + list ops)  │
//	└─────────────────────────────────────┘
//	                 │
//	        ┌────────┴────────┐
//	        ▼                 ▼
//	  ┌──────────┐      ┌──────────┐
//	  │  Memory  │      │  Redis   │
//	  │  Store   │      │  Store   │
//	  └──────────┘      └──────────┘
//
// # Core Interface
//
// Store: Key-value and queue-list operations
//   - Get(ctx, key) - Retrieve a value by key
//   - MGet(ctx, keys) - Retrieve many keys in one round trip
//   - MSet(ctx, kv) - Store or update a batch of key-value pairs
//   - Delete(ctx, keys...) - Remove key-value pairs (idempotent)
//   - LPush(ctx, key, value) - Push onto the head of a queue list
//   - RPop(ctx, key) - Pop from the tail of a queue list
//   - LLen(ctx, key) - Length of a queue list
//
// # Implementations
//
// MemoryStore: In-memory storage with sync.RWMutex
//   - Fast operations (nanosecond latency)
//   - No persistence (data lost on restart)
//   - Suitable for unit tests and embedded single-process deployments
//   - Thread-safe with a single coarse lock
//
// RedisStore: github.com/redis/go-redis/v9 backed storage
//   - Persistent, shared across processes
//   - Every method maps onto the Redis command of the same name
//     (GET/MGET/MSET/DEL/LPUSH/RPOP/LLEN), so the abstraction has
//     effectively zero translation cost
//   - The production backend for signatures, posting lists and the
//     crawl queue alike
//
// # Concurrency and Thread Safety
//
// All storage implementations guarantee thread safety:
//
// Locking Strategy:
//   - MemoryStore read operations use shared locks (RLock)
//   - MemoryStore write operations use exclusive locks (Lock)
//   - RedisStore delegates concurrency to the redis client's pool
//   - No locks held during network I/O
//
// Consistency Guarantees:
//   - Atomicity per key for MSet
//   - No guarantees across multiple keys in one MSet call
//   - Callers (internal/index in particular) order their Delete/MSet
//     batches so a crash between the two calls leaves the index in a
//     consistent superset state rather than losing entries
//
// # Key Space
//
// The three key families that share one store:
//
//	{itemId}            - compressed signature vector for an item
//	sig{band}-{value}   - compressed posting list for a (band, value) pair
//	{topic}             - crawl work queue (a list, e.g. "repository")
//
// Key families never collide: item ids are decimal integers, posting
// keys always carry the "sig" prefix, and queue topics are words.
//
// # Error Handling
//
// The package defines one standard error:
//
// ErrKeyNotFound: Key doesn't exist in the store
//   - Returned by Get() only
//   - MGet never returns it; absent keys yield a nil entry at the
//     matching position instead
//   - Check with errors.Is to distinguish absence from backend failure
//
// # Usage Examples
//
//	// Creating a memory store for tests
//	s := store.NewMemoryStore()
//
//	// Basic operations
//	err := s.MSet(ctx, map[string][]byte{"42": sig})
//	if err != nil {
//	    log.Fatalf("Failed to store: %v", err)
//	}
//
//	value, err := s.Get(ctx, "42")
//	if errors.Is(err, store.ErrKeyNotFound) {
//	    log.Println("Item not found")
//	} else if err != nil {
//	    log.Fatalf("Failed to retrieve: %v", err)
//	}
//
//	// Queue operations (broker only)
//	_ = s.LPush(ctx, "repository", msg)
//	raw, _ := s.RPop(ctx, "repository")
//	if raw == nil {
//	    // queue drained
//	}
//
//	// Production backend
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := store.NewRedisStore(client)
//
// # Testing
//
// The package includes test suites covering:
//
// Unit Tests:
//   - Interface compliance for MemoryStore
//   - MGet order preservation and absent-key reporting
//   - Delete idempotency
//   - Copy semantics for returned values
//   - Concurrent push safety
//
// Running tests:
//
//	go test ./internal/store/... -cover
//	go test -race ./internal/store/...
//
// # Metrics and Monitoring
//
// Storage metrics worth tracking in a deployment:
//
// Operation Metrics:
//   - store_ops_total{op="get|mget|mset|delete"}
//   - store_op_duration_seconds{op="..."}
//   - store_op_errors_total{op="..."}
//
// Queue Metrics:
//   - store_queue_depth{topic="repository"}
//   - store_queue_pushes_total
//   - store_queue_pops_total
//
// # Future Enhancements
//
// Planned improvements:
//
// Near-term:
//   - Pipelined MGet/MSet batching for very wide signature updates
//   - Optional TTL on posting-list keys
//
// Medium-term:
//   - Optimistic CAS on signature keys (unlocks concurrent writers
//     per item in the index engine)
//   - Cluster-mode redis client support
//
// # See Also
//
// Related packages:
//   - internal/index: Writes signatures and posting lists through Store
//   - internal/query: Reads posting lists through Store
//   - internal/broker: Builds its FIFO queue on the list operations
package store
