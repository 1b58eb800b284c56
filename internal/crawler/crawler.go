// Package crawler implements the concurrent GitHub metadata fetcher.
// See doc.go for complete package documentation.
package crawler

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/craftsangjae/recohub-go/internal/broker"
	"github.com/craftsangjae/recohub-go/internal/creds"
)

// DefaultAcquireTimeout, DefaultFetchTimeout and DefaultSleepInterval are
// used by callers that don't override Config's corresponding fields.
const (
	DefaultAcquireTimeout = 5 * time.Second
	DefaultFetchTimeout   = 10 * time.Second
	DefaultSleepInterval  = 2 * time.Second
	DefaultBatchSize      = 20
	DefaultMaxConcurrent  = 8
)

// Config configures a Crawler's loop parameters, all overridable from
// internal/config.
type Config struct {
	MaxConcurrent  int
	BatchSize      int
	SleepInterval  time.Duration
	AcquireTimeout time.Duration
	FetchTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.SleepInterval <= 0 {
		c.SleepInterval = DefaultSleepInterval
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = DefaultAcquireTimeout
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	return c
}

// Crawler is the concurrent fetch loop: drain the broker, acquire a
// credential, fetch, persist, update quota.
//
// Crawler characteristics:
//   - At most Config.MaxConcurrent fetch tasks in flight
//   - Dequeues up to Config.BatchSize messages per drain pass
//   - Sleeps Config.SleepInterval when the queue is empty
//   - Never crashes on a per-item failure; see doc.go, Failure Semantics
//
// Suitable for:
//   - One instance per process, driven by a single Run call
//
// Not suitable for:
//   - Multiple Run calls on the same instance (the drain loop assumes
//     it is the queue's only consumer in this process)
//
// Construct with New; the zero value is not usable.
type Crawler struct {
	broker *broker.Broker
	pool   *creds.Pool
	sink   DocumentSink
	errs   ErrorSink
	client *http.Client
	log    *logrus.Entry
	cfg    Config
}

// New returns a Crawler wiring its collaborators together.
//
// Parameters:
//   - b: The work queue to drain
//   - pool: The credential pool to acquire around every fetch
//   - sink: The document store successful fetches are upserted into
//   - errs: The append-only log permanent failures are recorded to
//   - client: The HTTP client for GraphQL requests; nil uses a default
//     client with FetchTimeout as its own timeout
//   - cfg: Loop parameters; zero fields take the package defaults
//   - log: Destination for operational logging; nil uses the standard
//     logger
//
// Returns:
//   - A Crawler ready for a single Run call
func New(b *broker.Broker, pool *creds.Pool, sink DocumentSink, errs ErrorSink, client *http.Client, cfg Config, log *logrus.Logger) *Crawler {
	cfg = cfg.withDefaults()
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Crawler{
		broker: b,
		pool:   pool,
		sink:   sink,
		errs:   errs,
		client: client,
		log:    log.WithField("component", "crawler"),
		cfg:    cfg,
	}
}

// Run drives the crawl loop until ctx is canceled.
//
// Behavior:
//   - Sleeps SleepInterval and re-checks while the broker is empty
//   - Dequeues up to BatchSize messages per pass, spawning one fetch
//     task per message, blocking when MaxConcurrent are in flight
//   - On cancellation, puts back dequeued-but-unspawned messages and
//     waits for in-flight tasks before returning ctx.Err()
//
// Thread-safety:
//   - Call once per Crawler; the loop is the queue's only consumer in
//     this process
//
// Returns:
//   - ctx.Err() after a clean shutdown
//   - A broker error if draining the queue itself fails
func (c *Crawler) Run(ctx context.Context) error {
	sem := make(chan struct{}, c.cfg.MaxConcurrent)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		empty, err := c.broker.IsEmpty(ctx)
		if err != nil {
			return fmt.Errorf("broker isEmpty: %w", err)
		}
		if empty {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.SleepInterval):
			}
			continue
		}

		msgs, err := c.broker.GetBulk(ctx, c.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("getBulk: %w", err)
		}

		for i, msg := range msgs {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				// Already-dequeued messages would be lost on shutdown;
				// put them back before returning.
				for _, m := range msgs[i:] {
					c.requeue(m, c.log)
				}
				return ctx.Err()
			}

			wg.Add(1)
			go func(msg broker.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				c.fetch(ctx, msg)
			}(msg)
		}
	}
}

// fetch implements the per-task protocol: acquire a credential, POST the
// GraphQL query, persist or error-sink the result, release the credential
// with its reported quota. Every failure funnels to either a requeue or
// the error sink; a per-item failure never takes down the loop.
func (c *Crawler) fetch(ctx context.Context, msg broker.Message) {
	log := c.log.WithFields(logrus.Fields{"owner": msg.Owner, "name": msg.Name})

	acquireCtx, cancel := context.WithTimeout(ctx, c.cfg.AcquireTimeout)
	key, err := c.pool.Acquire(acquireCtx)
	cancel()
	if err != nil {
		// An acquire timeout abandons this single attempt without a
		// requeue, so sustained exhaustion cannot livelock the loop.
		log.WithError(err).Warn("credential acquire failed, abandoning attempt")
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	resp, err := postGraphQL(fetchCtx, c.client, key, repositoryQuery, map[string]any{
		"owner": msg.Owner,
		"name":  msg.Name,
	})
	cancel()
	if err != nil {
		log.WithError(err).Warn("transient fetch failure, requeueing")
		c.requeue(msg, log)
		return
	}

	if resp.Data != nil && resp.Data.RateLimit != nil {
		if resetAt, perr := time.Parse(time.RFC3339, resp.Data.RateLimit.ResetAt); perr == nil {
			c.pool.Set(key, resp.Data.RateLimit.Remaining, resetAt)
		} else {
			log.WithError(perr).Warn("failed to parse rateLimit.resetAt")
		}
	}

	if len(resp.Errors) > 0 || resp.Data == nil || resp.Data.Repository == nil {
		log.WithField("errors", resp.Errors).Warn("permanent fetch failure, sending to error sink")
		entry := map[string]any{
			"owner":  msg.Owner,
			"name":   msg.Name,
			"errors": resp.Errors,
		}
		if err := c.errs.Put(ctx, entry); err != nil {
			log.WithError(err).Error("failed to write error sink entry")
		}
		return
	}

	putCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	err = c.sink.Put(putCtx, resp.Data.Repository)
	cancel()
	if err != nil {
		log.WithError(err).Warn("document store put failed, requeueing")
		c.requeue(msg, log)
		return
	}

	log.Debug("persisted repository")
}

// requeue uses its own context so a message dequeued just before shutdown
// still makes it back onto the broker after the run context is canceled.
func (c *Crawler) requeue(msg broker.Message, log *logrus.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.broker.Put(ctx, msg); err != nil {
		log.WithError(err).Error("failed to requeue after transient failure")
	}
}
