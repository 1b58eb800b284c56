package crawler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftsangjae/recohub-go/internal/broker"
	"github.com/craftsangjae/recohub-go/internal/creds"
	"github.com/craftsangjae/recohub-go/internal/store"
)

type fakeProber struct{}

func (fakeProber) Probe(context.Context, string) (int, time.Time, error) {
	return 1000, time.Now().Add(time.Hour), nil
}

type fakeDocSink struct {
	mu   sync.Mutex
	docs []map[string]any
}

func (s *fakeDocSink) Put(_ context.Context, doc map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return nil
}

func (s *fakeDocSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

type fakeErrSink struct {
	mu      sync.Mutex
	entries []map[string]any
}

func (s *fakeErrSink) Put(_ context.Context, entry map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeErrSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func withEndpoint(t *testing.T, url string) {
	t.Helper()
	orig := graphQLEndpoint
	graphQLEndpoint = url
	t.Cleanup(func() { graphQLEndpoint = orig })
}

func newTestCrawler(t *testing.T, fetchTimeout time.Duration, sink DocumentSink, errs ErrorSink) (*Crawler, *broker.Broker) {
	t.Helper()
	s := store.NewMemoryStore()
	b := broker.New(s, "repository")

	pool, err := creds.New(context.Background(), []string{"tok"}, fakeProber{}, nil)
	require.NoError(t, err)

	cfg := Config{
		MaxConcurrent:  2,
		BatchSize:      5,
		SleepInterval:  20 * time.Millisecond,
		AcquireTimeout: time.Second,
		FetchTimeout:   fetchTimeout,
	}
	return New(b, pool, sink, errs, nil, cfg, nil), b
}

func TestCrawlerRequeuesOnFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()
	withEndpoint(t, server.URL)

	docs := &fakeDocSink{}
	errs := &fakeErrSink{}
	c, b := newTestCrawler(t, 50*time.Millisecond, docs, errs)

	require.NoError(t, b.Put(context.Background(), broker.Message{Owner: "a", Name: "b"}))

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	_ = c.Run(ctx)

	empty, err := b.IsEmpty(context.Background())
	require.NoError(t, err)
	assert.False(t, empty, "expected requeued message back on the broker after fetch timeout")
	assert.Equal(t, 0, docs.count(), "expected no documents persisted")
}

func TestCrawlerPersistsSuccessfulFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"data": map[string]any{
				"repository": map[string]any{"id": "repo-1", "name": "b"},
				"rateLimit":  map[string]any{"remaining": 999, "resetAt": time.Now().Add(time.Hour).UTC().Format(time.RFC3339)},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()
	withEndpoint(t, server.URL)

	docs := &fakeDocSink{}
	errs := &fakeErrSink{}
	c, b := newTestCrawler(t, time.Second, docs, errs)

	require.NoError(t, b.Put(context.Background(), broker.Message{Owner: "a", Name: "b"}))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = c.Run(ctx)

	assert.Equal(t, 1, docs.count(), "expected one persisted document")
	assert.Equal(t, 0, errs.count(), "expected no error sink entries")
}

func TestCrawlerSendsPermanentErrorToErrorSink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"errors": []map[string]any{{"message": "repository not found"}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()
	withEndpoint(t, server.URL)

	docs := &fakeDocSink{}
	errs := &fakeErrSink{}
	c, b := newTestCrawler(t, time.Second, docs, errs)

	require.NoError(t, b.Put(context.Background(), broker.Message{Owner: "a", Name: "missing"}))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = c.Run(ctx)

	assert.Equal(t, 1, errs.count(), "expected one error sink entry")
	assert.Equal(t, 0, docs.count(), "expected no persisted documents")

	empty, err := b.IsEmpty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty, "expected no requeue on permanent error")
}
