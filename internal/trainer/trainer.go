// Package trainer drives the long-running warehouse ingest loop.
// See doc.go for complete package documentation.
package trainer

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// DefaultMaxRetries and DefaultRetryBaseline bound the retry loop around
// the warehouse iterator: up to 5 retries, 3 seconds apart.
const (
	DefaultMaxRetries    = 5
	DefaultRetryBaseline = 3 * time.Second
)

// Row is a single {item, users} observation pulled from the warehouse.
// Users is always normalized to a slice, even for a single-user row.
type Row struct {
	Item  int64
	Users []int64
}

// RowSource is the external warehouse iterator. Next returns the next row,
// or ok=false with a nil error once exhausted — the Go analogue of Python's
// StopIteration. A transient error leaves the source able to resume from
// the same logical position on the next Next call; Trainer relies on this
// to "resume at the last successful row index" after a retry.
type RowSource interface {
	Next(ctx context.Context) (row Row, ok bool, err error)
}

// Engine is the subset of internal/index.Engine the Trainer drives.
type Engine interface {
	UpdateItem(ctx context.Context, item int64, users ...int64) error
}

// Trainer pulls rows from a RowSource and feeds them to an Engine one at
// a time, retrying transient row-source errors and exiting cleanly when
// the source is exhausted or a fatal error occurs.
type Trainer struct {
	source        RowSource
	engine        Engine
	log           *logrus.Entry
	maxRetries    uint64
	retryBaseline time.Duration
}

// New returns a Trainer pulling rows from source into engine.
func New(source RowSource, engine Engine, log *logrus.Logger) *Trainer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Trainer{
		source:        source,
		engine:        engine,
		log:           log.WithField("component", "trainer"),
		maxRetries:    DefaultMaxRetries,
		retryBaseline: DefaultRetryBaseline,
	}
}

// Run pulls rows until the source is exhausted (clean exit, nil error) or
// a fatal error occurs (row source exhausts its retry budget, or ctx is
// canceled). Per-row UpdateItem failures are logged and do not stop the
// loop; the retry/backoff budget guards the iterator itself, not the
// index write.
func (t *Trainer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, ok, err := t.nextWithRetry(ctx)
		if err != nil {
			t.log.WithError(err).Error("fatal row-source error, exiting")
			return err
		}
		if !ok {
			t.log.Info("row source exhausted, exiting cleanly")
			return nil
		}

		if err := t.engine.UpdateItem(ctx, row.Item, row.Users...); err != nil {
			t.log.WithError(err).WithField("item", row.Item).Warn("updateItem failed for row")
		}
	}
}

// nextWithRetry calls source.Next, retrying up to maxRetries times with a
// constant retryBaseline backoff on transient errors before giving up.
func (t *Trainer) nextWithRetry(ctx context.Context) (Row, bool, error) {
	var row Row
	var ok bool

	operation := func() error {
		r, o, err := t.source.Next(ctx)
		if err != nil {
			return err
		}
		row, ok = r, o
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(t.retryBaseline), t.maxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		t.log.WithError(err).WithField("wait", wait).Warn("transient row-source error, retrying")
	}

	if err := backoff.RetryNotify(operation, bo, notify); err != nil {
		return Row{}, false, fmt.Errorf("row source exhausted retry budget: %w", err)
	}
	return row, ok, nil
}
