package creds

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeProber serves pre-seeded (remaining, resetAt) pairs and counts calls
// per key, so tests can assert both priming and post-exhaustion refresh
// behavior without hitting a real GitHub endpoint.
type fakeProber struct {
	mu     sync.Mutex
	quotas map[string]struct {
		remaining int
		resetAt   time.Time
	}
	calls map[string]int
}

func newFakeProber(seed map[string]struct {
	remaining int
	resetAt   time.Time
}) *fakeProber {
	return &fakeProber{quotas: seed, calls: make(map[string]int)}
}

func (f *fakeProber) Probe(_ context.Context, key string) (int, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
	q := f.quotas[key]
	return q.remaining, q.resetAt, nil
}

func (f *fakeProber) set(key string, remaining int, resetAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotas[key] = struct {
		remaining int
		resetAt   time.Time
	}{remaining, resetAt}
}

func newTestPool(t *testing.T, keys []string, prober QuotaProber) *Pool {
	t.Helper()
	p, err := New(context.Background(), keys, prober, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.grace = 20 * time.Millisecond
	return p
}

func TestPoolRotation(t *testing.T) {
	// Pool of 3 keys with remaining [0, 5, 3]: sequential acquires must
	// always skip key1 (remaining 0) and rotate among key2/key3.
	future := time.Now().Add(time.Hour)
	prober := newFakeProber(map[string]struct {
		remaining int
		resetAt   time.Time
	}{
		"key1": {0, future},
		"key2": {5, future},
		"key3": {3, future},
	})

	p := newTestPool(t, []string{"key1", "key2", "key3"}, prober)

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		acqCtx, cancel := context.WithTimeout(ctx, time.Second)
		key, err := p.Acquire(acqCtx)
		cancel()
		if err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
		if key == "key1" {
			t.Fatalf("acquire %d returned exhausted key1", i)
		}
	}
}

func TestPoolExhaustionSuspendsThenRetries(t *testing.T) {
	// All credentials exhausted: acquire must suspend until shortly
	// after resetAt, then succeed once the (re-probed) quota allows it.
	resetAt := time.Now().Add(30 * time.Millisecond)
	prober := newFakeProber(map[string]struct {
		remaining int
		resetAt   time.Time
	}{
		"key1": {0, resetAt},
	})

	p := newTestPool(t, []string{"key1"}, prober)
	p.grace = 10 * time.Millisecond

	// After the exhausted pass triggers a refresh, report quota as
	// replenished so the retried scan succeeds.
	go func() {
		time.Sleep(15 * time.Millisecond)
		prober.set("key1", 5, time.Now().Add(time.Hour))
	}()

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	key, err := p.Acquire(ctx)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if key != "key1" {
		t.Fatalf("unexpected key: %s", key)
	}
	if elapsed < 20*time.Millisecond {
		t.Fatalf("acquire returned too fast (%v), expected to suspend past resetAt", elapsed)
	}
}

func TestPoolAcquireTimeout(t *testing.T) {
	future := time.Now().Add(time.Hour)
	prober := newFakeProber(map[string]struct {
		remaining int
		resetAt   time.Time
	}{
		"key1": {0, future},
	})

	p := newTestPool(t, []string{"key1"}, prober)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := p.Acquire(ctx)
	if err != ErrAcquireTimeout {
		t.Fatalf("expected ErrAcquireTimeout, got %v", err)
	}
}

func TestPoolMonotoneMerge(t *testing.T) {
	future := time.Now().Add(time.Hour)
	prober := newFakeProber(map[string]struct {
		remaining int
		resetAt   time.Time
	}{
		"key1": {10, future},
	})
	p := newTestPool(t, []string{"key1"}, prober)

	// A lower reported remaining wins; an earlier reported resetAt does not.
	earlier := future.Add(-time.Minute)
	p.Set("key1", 3, earlier)
	if p.creds["key1"].remaining != 3 {
		t.Fatalf("expected remaining to drop to min(10,3)=3, got %d", p.creds["key1"].remaining)
	}
	if !p.creds["key1"].resetAt.Equal(future) {
		t.Fatalf("expected resetAt to stay at the max observed value")
	}

	// A higher reported remaining must never raise the cached value back up.
	later := future.Add(time.Minute)
	p.Set("key1", 9, later)
	if p.creds["key1"].remaining != 3 {
		t.Fatalf("expected remaining to stay at min(3,9)=3, got %d", p.creds["key1"].remaining)
	}
	if !p.creds["key1"].resetAt.Equal(later) {
		t.Fatalf("expected resetAt to advance to the later reset horizon")
	}
}

func TestNewRejectsEmptyKeys(t *testing.T) {
	_, err := New(context.Background(), nil, newFakeProber(nil), nil)
	if err != ErrNoCredentials {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestLoadKeyFile(t *testing.T) {
	t.Run("missing file errors", func(t *testing.T) {
		if _, err := LoadKeyFile("/nonexistent/path/to/keys.txt"); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
