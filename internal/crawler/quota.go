package crawler

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// QuotaProber implements creds.QuotaProber by issuing the dry-run
// rateLimit query against the real GitHub GraphQL endpoint. It backs both
// pool priming at startup and the live refresh Acquire triggers after a
// full exhausted pass.
type QuotaProber struct {
	Client *http.Client
}

// NewQuotaProber returns a QuotaProber using client, or a default client
// with a 10s timeout if client is nil.
func NewQuotaProber(client *http.Client) *QuotaProber {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &QuotaProber{Client: client}
}

// Probe implements creds.QuotaProber.
func (p *QuotaProber) Probe(ctx context.Context, key string) (int, time.Time, error) {
	resp, err := postGraphQL(ctx, p.Client, key, rateLimitQuery, nil)
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(resp.Errors) > 0 {
		return 0, time.Time{}, fmt.Errorf("quota probe returned errors: %v", resp.Errors)
	}
	if resp.Data == nil || resp.Data.RateLimit == nil {
		return 0, time.Time{}, fmt.Errorf("quota probe response missing rateLimit")
	}

	resetAt, err := time.Parse(time.RFC3339, resp.Data.RateLimit.ResetAt)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("parse resetAt: %w", err)
	}
	return resp.Data.RateLimit.Remaining, resetAt, nil
}
