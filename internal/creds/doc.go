// Package creds implements the round-robin GitHub credential pool for recohub's
// crawler, multiplexing concurrent fetch tasks across a set of rate-limited
// bearer tokens with quota tracking that is safe under heavy concurrency.
//
// # Overview
//
// The creds package answers one question for the crawler: "which token can I
// spend a request on right now?". Each credential carries a cached estimate of
// its remaining quota and the wall-clock instant that quota refills. The pool
// hands out credentials round-robin, optimistically decrements the cached
// estimates, and reconciles them against the authoritative rateLimit readings
// GitHub attaches to every GraphQL response.
//
// # Architecture
//
// The pool sits between the fetch tasks and GitHub's rate limiter:
//
//	┌──────────┐ ┌──────────┐ ┌──────────┐
//	│ fetch #1 │ │ fetch #2 │ │ fetch #N │
//	└────┬─────┘ └────┬─────┘ └────┬─────┘
//	     │  Acquire / │ Set        │
//	     ▼            ▼            ▼
//	┌─────────────────────────────────────┐
//	│                Pool                 │
//	│                                     │
//	│  order:  [key2, key3, key1]  (RR)   │
//	│  creds:  key → (remaining, resetAt) │
//	└──────────────────┬──────────────────┘
//	                   │ Probe (startup + exhaustion refresh)
//	                   ▼
//	┌─────────────────────────────────────┐
//	│            QuotaProber              │
//	│   rateLimit(dryRun:true) GraphQL    │
//	└─────────────────────────────────────┘
//
// # Acquire Protocol
//
// A single Acquire performs the following steps:
//
//  1. Scan the pool from head, rotating each inspected credential to the
//     tail (round-robin) and optimistically decrementing its cached
//     remaining count.
//  2. Return the first credential whose pre-decrement remaining was
//     positive.
//  3. If the full pass yields none, suspend the caller until shortly after
//     the earliest reset time seen during the scan (plus a grace period
//     for clock skew), re-query live quota for every credential, and
//     retry, all bounded by the caller's context deadline.
//
// The suspension in step 3 is a real timer wait on the calling goroutine.
// An exhausted pool never busy-spins.
//
// # Monotone Merge
//
// Because many fetches race against the same cached counters, reconciling an
// authoritative reading with the optimistic cache must never over-credit the
// pool. Set therefore takes:
//
//   - the MINIMUM of the reported and cached remaining (never raise the
//     spend estimate)
//   - the MAXIMUM of the reported and cached resetAt (never regress the
//     reset horizon)
//
// This is exactly the property needed to avoid over-spending a shared quota
// with nothing more than short critical sections: Acquire's scan and Set's
// merge each hold the pool mutex only briefly.
//
// # Error Handling
//
// The package defines two standard error types:
//
// ErrNoCredentials: The pool has no credentials
//   - Returned by New for an empty key list
//   - Returned by LoadKeyFile for an empty credentials file
//   - Fatal at startup; the daemons exit
//
// ErrAcquireTimeout: The caller's deadline expired while waiting
//   - The caller abandons this single attempt
//   - NOT counted as a transient requeue-worthy failure, so sustained
//     exhaustion cannot livelock the crawl loop
//
// # Usage Examples
//
//	keys, err := creds.LoadKeyFile("credentials.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pool, err := creds.New(ctx, keys, prober, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	acqCtx, cancel := context.WithTimeout(ctx, creds.DefaultAcquireTimeout)
//	defer cancel()
//	key, err := pool.Acquire(acqCtx)
//	if errors.Is(err, creds.ErrAcquireTimeout) {
//	    // abandon this attempt
//	}
//
//	// ... use key, then reconcile with the response's rateLimit:
//	pool.Set(key, rl.Remaining, resetAt)
//
// # Testing
//
// The package's tests stub QuotaProber so no live GitHub endpoint is needed:
//
//   - Rotation skipping exhausted keys
//   - Exhaustion suspending the caller, then succeeding after refresh
//   - Acquire honoring the context deadline
//   - The monotone merge in both directions
//
// Running tests:
//
//	go test ./internal/creds/... -race
//
// # Metrics and Monitoring
//
// Pool metrics worth tracking in a deployment:
//
//   - creds_acquire_total / creds_acquire_timeouts_total
//   - creds_exhaustion_waits_total
//   - creds_remaining{key="<masked>"}
//   - creds_reset_horizon_seconds
//
// # Future Enhancements
//
// Near-term:
//   - Jittered wake-up after exhaustion to avoid thundering herd across
//     processes sharing the same tokens
//
// Medium-term:
//   - Weighted rotation favoring credentials with the most headroom
//   - Hot-reload of the credentials file without restart
//
// # See Also
//
// Related packages:
//   - internal/crawler: The only consumer; acquires around every fetch
//     and implements QuotaProber over the GitHub GraphQL endpoint
package creds
