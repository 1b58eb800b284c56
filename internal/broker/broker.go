// Package broker implements the crawl-target work queue.
// See doc.go for complete package documentation.
package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/craftsangjae/recohub-go/internal/store"
)

// Message is a single crawl target: a GitHub (owner, name) pair.
type Message struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// Broker is a FIFO work queue of crawl Messages.
type Broker struct {
	store store.Store
	topic string
}

// New returns a Broker backed by s, storing its queue under the given topic
// key (e.g. "repository").
func New(s store.Store, topic string) *Broker {
	return &Broker{store: s, topic: topic}
}

// IsEmpty reports whether the queue currently has no pending messages.
func (b *Broker) IsEmpty(ctx context.Context) (bool, error) {
	n, err := b.store.LLen(ctx, b.topic)
	if err != nil {
		return false, fmt.Errorf("llen: %w", err)
	}
	return n == 0, nil
}

// Put enqueues msg at the head of the queue.
func (b *Broker) Put(ctx context.Context, msg Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := b.store.LPush(ctx, b.topic, raw); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}
	return nil
}

// Get dequeues and returns the next message, or (Message{}, false, nil) if
// the queue is empty. Once returned, the message is the caller's
// responsibility — there is no ack/redelivery protocol; a transient failure
// must be requeued explicitly via Put.
func (b *Broker) Get(ctx context.Context) (Message, bool, error) {
	raw, err := b.store.RPop(ctx, b.topic)
	if err != nil {
		return Message{}, false, fmt.Errorf("rpop: %w", err)
	}
	if raw == nil {
		return Message{}, false, nil
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, false, fmt.Errorf("unmarshal: %w", err)
	}
	return msg, true, nil
}

// GetBulk dequeues up to n messages by issuing successive Gets. It returns
// short — with fewer than n messages — the moment the queue drains; it
// never blocks waiting for more to arrive.
func (b *Broker) GetBulk(ctx context.Context, n int) ([]Message, error) {
	msgs := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		msg, ok, err := b.Get(ctx)
		if err != nil {
			return msgs, err
		}
		if !ok {
			break
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
