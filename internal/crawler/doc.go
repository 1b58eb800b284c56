// Package crawler implements recohub's concurrent GitHub metadata fetcher,
// draining a broker queue of (owner, name) targets, multiplexing requests
// across the rate-limited credential pool, and persisting results idempotently
// to the document store.
//
// # Overview
//
// The crawler is one of recohub's two long-running cores. It turns queued
// crawl targets into repository metadata documents: each target costs one
// authenticated GraphQL request, each request spends quota on one credential,
// and each successful response is upserted into the document store by
// repository id so re-fetches never duplicate data.
//
// # Architecture
//
// The crawl pipeline, left to right:
//
//	┌──────────┐    ┌──────────────────────────────┐
//	│  Broker  │    │           Crawler            │
//	│ (redis   │───▶│                              │
//	│  list)   │    │  Run: drain → spawn fetches  │
//	└──────────┘    │  sem: ≤ maxConcurrent        │
//	      ▲         └──────┬───────────────────────┘
//	      │ requeue        │ fetch (per target)
//	      │ (transient)    ▼
//	      │         ┌─────────────┐   ┌─────────────┐
//	      └─────────│  GraphQL    │──▶│ DocumentSink│
//	                │  endpoint   │   │  (Mongo)    │
//	                └──────┬──────┘   └─────────────┘
//	                       │ errors payload
//	                       ▼
//	                ┌─────────────┐
//	                │  ErrorSink  │
//	                │ (JSON file) │
//	                └─────────────┘
//
// # Fetch Workflow
//
// Each dequeued message runs the following per-task protocol:
//
//  1. Acquire a credential from the pool (deadline: AcquireTimeout).
//     On timeout, abandon the attempt without a requeue.
//  2. POST the repository GraphQL query with "Authorization: bearer <key>".
//  3. On a network or decode failure (deadline: FetchTimeout), requeue
//     the message and abort.
//  4. If the response carries data.rateLimit, release the credential
//     with its reported (remaining, resetAt).
//  5. On an errors payload or a missing data.repository, append the
//     failure to the error sink. Never requeued.
//  6. Otherwise upsert data.repository into the document store by id.
//     A store failure requeues the message.
//
// # Concurrency Model
//
// Run maintains a fixed-parallelism pool of fetch tasks bounded by
// maxConcurrent, modeled as a buffered channel used as a counting semaphore:
//
//   - The drain loop blocks before spawning when saturated
//   - Suspension points per task: credential acquire, HTTP round trip,
//     document-store put
//   - On shutdown, Run waits for in-flight tasks and puts back any
//     dequeued-but-unspawned messages, so cancellation never drops work
//
// # Failure Semantics
//
// Every per-item failure funnels to one of three destinations; the loop
// itself never crashes on one:
//
//	HTTP timeout / connection refused  → requeue (no data loss)
//	document-store put failure         → requeue (no data loss)
//	credential acquire timeout         → abandon attempt (no requeue,
//	                                     prevents exhaustion livelock)
//	GraphQL errors payload             → error sink (never retried)
//	missing data.repository            → error sink (never retried)
//
// Credential exhaustion blocks the acquiring goroutine inside the pool
// rather than spinning.
//
// # Capability Interfaces
//
// The crawler consumes its two persistence collaborators through minimal
// interfaces so tests can swap them for in-memory fakes:
//
// DocumentSink: Upsert a repository document by id
//   - MongoSink: production implementation (ReplaceOne, upsert)
//
// ErrorSink: Append a permanent-failure record
//   - FileSystemSink: one JSON object per line, append-only
//
// # Usage Examples
//
//	c := crawler.New(b, pool, sink, errSink, nil, crawler.Config{
//	    MaxConcurrent: 8,
//	    BatchSize:     20,
//	    SleepInterval: 2 * time.Second,
//	}, logger)
//
//	// Blocks until ctx is canceled; in-flight fetches drain first.
//	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// The package's tests drive Run against httptest servers and in-memory
// sinks:
//
//   - A hanging endpoint with a short FetchTimeout: the message is back
//     on the broker, nothing persisted
//   - A well-formed response: one document persisted, no error entries
//   - An errors payload: one error entry, no requeue
//
// Running tests:
//
//	go test ./internal/crawler/... -race
//
// # Metrics and Monitoring
//
// Crawler metrics worth tracking in a deployment:
//
//   - crawler_fetches_total{outcome="ok|requeue|error_sink|abandoned"}
//   - crawler_fetch_duration_seconds
//   - crawler_inflight_tasks
//   - crawler_queue_depth
//
// # Future Enhancements
//
// Near-term:
//   - Retry budget per message (a poison target currently requeues
//     forever on transient failures)
//   - Batch GraphQL queries fetching several repositories per request
//
// Medium-term:
//   - Conditional fetches (skip repositories crawled recently)
//   - Per-credential concurrency caps
//
// # See Also
//
// Related packages:
//   - internal/broker: The work queue Run drains
//   - internal/creds: The credential pool fetch acquires from
package crawler
