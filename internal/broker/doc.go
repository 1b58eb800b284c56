// Package broker implements recohub's crawl-target work queue: a FIFO list of
// (owner, name) repository targets atop internal/store's list primitives.
//
// # Overview
//
// Producers Put messages, which land at the head of the backing list
// (LPush); the crawler Gets them off the tail (RPop), which is what gives
// the queue its FIFO ordering. Messages are UTF-8 JSON objects with string
// fields owner and name.
//
// # Queue Semantics
//
//	        Put (LPush)                    Get (RPop)
//	producers ──────────▶ [ m3 | m2 | m1 ] ──────────▶ consumer
//	                       head        tail
//
//   - FIFO absent requeues: Get order matches Put order
//   - No ack/redelivery protocol: once dequeued, a message is the
//     consumer's responsibility; a transient failure must be requeued
//     explicitly via Put
//   - A requeued message re-enters at the list head, behind everything
//     already waiting, so it is retried after the backlog drains
//   - GetBulk returns short the moment the queue drains; it never
//     blocks waiting for more messages
//
// # Usage Examples
//
//	b := broker.New(s, "repository")
//	_ = b.Put(ctx, broker.Message{Owner: "golang", Name: "go"})
//
//	msgs, err := b.GetBulk(ctx, 20)
//	for _, m := range msgs {
//	    // fetch m; on transient failure: _ = b.Put(ctx, m)
//	}
//
// # Testing
//
// The package's tests verify FIFO ordering, requeue placement, short
// GetBulk returns and empty-queue behavior against an in-memory store.
//
// Running tests:
//
//	go test ./internal/broker/...
//
// # See Also
//
// Related packages:
//   - internal/store: Supplies the LPush/RPop/LLen primitives
//   - internal/crawler: The queue's consumer
package broker
