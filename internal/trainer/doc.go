// Package trainer drives recohub's long-running ingest loop: pull rows from
// an external warehouse iterator and fold each one into the MinHash index.
//
// # Overview
//
// The trainer is the bulk-ingest counterpart to the query server's
// one-observation-at-a-time write path. It consumes {item, users} rows from
// a RowSource, one at a time, and hands each to the index engine. The
// warehouse itself is an opaque external collaborator; this package depends
// only on the RowSource interface, never on how rows are produced.
//
// # Ingest Workflow
//
//	┌───────────┐   Next()   ┌───────────┐  UpdateItem  ┌────────────┐
//	│ RowSource │───────────▶│  Trainer  │─────────────▶│ IndexEngine│
//	│ (external)│            │  (retry)  │              │            │
//	└───────────┘            └───────────┘              └────────────┘
//
// Per iteration:
//
//  1. Pull the next row, retrying transient source errors up to 5 times
//     with a constant 3-second backoff. The source stays positioned at
//     the failed row, so a successful retry resumes exactly where the
//     failure happened.
//  2. Feed the row to the engine. A per-row engine failure is logged and
//     skipped; it never stops the loop.
//  3. Exit cleanly when the source is exhausted; exit with the error
//     when the retry budget runs out or the context is canceled.
//
// # Failure Semantics
//
//	transient source error     → retry with backoff, resume at the row
//	retry budget exhausted     → fatal, Run returns the error
//	per-row UpdateItem failure → logged, loop continues
//	source exhausted           → clean exit, nil error
//
// # Usage Examples
//
//	tr := trainer.New(source, engine, logger)
//	if err := tr.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// The package's tests script a RowSource with per-call failure injection
// and record what reaches the engine:
//
//   - All rows drain in order on the happy path
//   - Transient failures retry and then resume at the same row
//   - The loop exits fatally once the retry budget is spent
//
// Running tests:
//
//	go test ./internal/trainer/...
//
// # See Also
//
// Related packages:
//   - internal/index: The engine every row is folded into
//   - cmd/trainer: Wires a file-backed RowSource into this loop
package trainer
