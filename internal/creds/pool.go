// Package creds implements the round-robin GitHub credential pool.
// See doc.go for complete package documentation.
package creds

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoCredentials is returned by New when given no keys, and by Acquire if
// the pool somehow has no credentials to scan (the pool never removes a
// credential after construction, so in practice this is a startup-only
// condition).
var ErrNoCredentials = errors.New("no credentials available")

// ErrAcquireTimeout is returned by Acquire when the caller's context is
// done before a credential becomes available. It is distinct from a
// transient fetch failure: the caller abandons this single attempt rather
// than counting it as a requeue-worthy error, so sustained exhaustion
// cannot livelock the crawl loop.
var ErrAcquireTimeout = errors.New("acquire timed out")

// DefaultAcquireTimeout is used by callers that don't set their own context
// deadline before calling Acquire.
const DefaultAcquireTimeout = 5 * time.Second

// exhaustionGrace is added to the earliest observed reset time before the
// pool retries an exhausted scan, to absorb clock skew between this
// process and GitHub's rate-limit clock.
const exhaustionGrace = 10 * time.Second

// QuotaProber queries a credential's live quota, used both to prime the
// pool at startup and to refresh every credential after a full exhausted
// pass.
type QuotaProber interface {
	Probe(ctx context.Context, key string) (remaining int, resetAt time.Time, err error)
}

type credential struct {
	key       string
	remaining int
	resetAt   time.Time
}

// Pool is a round-robin pool of GitHub bearer tokens with monotone
// remaining-quota and reset-time tracking, shared by every concurrent
// fetch task in the crawler.
//
// Pool characteristics:
//   - Insertion-ordered rotation (scan head, move to tail)
//   - Optimistic decrement on every inspection during Acquire
//   - Monotone reconciliation against authoritative readings via Set
//   - Suspends (never spins) when every credential is exhausted
//
// Suitable for:
//   - One pool per process, constructed once at startup
//   - Dozens of concurrent Acquire/Set callers
//
// Not suitable for:
//   - Sharing tokens across processes (each process over-counts its
//     own optimistic decrements; the monotone merge corrects per
//     response, but headroom estimates stay conservative)
//   - Credential rotation at runtime (the set is fixed at New)
//
// The zero value is not usable; construct with New.
type Pool struct {
	mu     sync.Mutex
	order  []string
	creds  map[string]*credential
	prober QuotaProber
	log    *logrus.Entry
	grace  time.Duration
}

// New builds a Pool from keys, probing each one's live quota via prober
// before returning, so the pool starts from authoritative numbers rather
// than trusting a stale file.
//
// Behavior:
//   - Preserves the order of keys for the initial rotation
//   - Probes every key once; a single probe failure fails construction
//   - Returns ErrNoCredentials if keys is empty
//
// Parameters:
//   - ctx: Bounds the startup probes
//   - keys: Bearer tokens, typically from LoadKeyFile
//   - prober: Live quota source (stubbed in tests)
//   - log: Destination for exhaustion-wait warnings; nil uses the
//     standard logger
//
// Returns:
//   - A ready Pool, or an error if priming failed
func New(ctx context.Context, keys []string, prober QuotaProber, log *logrus.Logger) (*Pool, error) {
	if len(keys) == 0 {
		return nil, ErrNoCredentials
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	p := &Pool{
		order:  make([]string, 0, len(keys)),
		creds:  make(map[string]*credential, len(keys)),
		prober: prober,
		log:    log.WithField("component", "creds"),
		grace:  exhaustionGrace,
	}

	for _, key := range keys {
		remaining, resetAt, err := prober.Probe(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("priming quota for %s: %w", mask(key), err)
		}
		p.order = append(p.order, key)
		p.creds[key] = &credential{key: key, remaining: remaining, resetAt: resetAt}
	}

	return p, nil
}

// LoadKeyFile reads newline-delimited bearer tokens from path, ignoring
// empty lines. Returns ErrNoCredentials if the file yields no keys.
func LoadKeyFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open key file: %w", err)
	}
	defer f.Close()

	var keys []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		keys = append(keys, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan key file: %w", err)
	}
	if len(keys) == 0 {
		return nil, ErrNoCredentials
	}
	return keys, nil
}

// Acquire returns the key of a credential with remaining quota, blocking
// the caller if the pool is momentarily exhausted.
//
// Behavior:
//   - One round-robin scan with optimistic decrement per attempt
//   - On an exhausted pass, suspends until the earliest reset time
//     plus a grace period, refreshes every credential's live quota,
//     and retries
//   - Returns ErrAcquireTimeout the moment ctx is done
//
// Thread-safety:
//   - Safe for concurrent calls; concurrent acquirers see disjoint
//     rotations of the shared order
//
// Parameters:
//   - ctx: MUST carry a deadline (DefaultAcquireTimeout if the caller
//     has no stronger preference); with an undeadlined context Acquire
//     can legitimately block for the longest reset horizon in the pool
//
// Returns:
//   - The acquired bearer token on success
//   - ErrAcquireTimeout if ctx expired while waiting
//   - ErrNoCredentials if the pool holds no credentials
//   - A wrapped probe error if the post-exhaustion refresh failed
//
// Example:
//
//	acqCtx, cancel := context.WithTimeout(ctx, creds.DefaultAcquireTimeout)
//	defer cancel()
//	key, err := pool.Acquire(acqCtx)
func (p *Pool) Acquire(ctx context.Context) (string, error) {
	if p.Len() == 0 {
		return "", ErrNoCredentials
	}
	for {
		key, ok, minResetAt := p.tryAcquire()
		if ok {
			return key, nil
		}

		wait := time.Until(minResetAt.Add(p.grace))
		if wait < 0 {
			wait = 0
		}

		p.log.WithField("wait", wait).Warn("credential pool exhausted, suspending caller")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ErrAcquireTimeout
		case <-timer.C:
		}

		if err := p.refreshAll(ctx); err != nil {
			return "", fmt.Errorf("refresh after exhaustion: %w", err)
		}
	}
}

// tryAcquire performs one round-robin scan: each inspected credential is
// rotated to the tail and optimistically decremented. It returns the first
// credential whose pre-decrement remaining was positive, or ok=false with
// the minimum resetAt observed during the scan.
func (p *Pool) tryAcquire() (key string, ok bool, minResetAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.order)
	for i := 0; i < n; i++ {
		k := p.order[0]
		p.order = append(p.order[1:], k)

		c := p.creds[k]
		preDecrement := c.remaining
		c.remaining--

		if minResetAt.IsZero() || c.resetAt.Before(minResetAt) {
			minResetAt = c.resetAt
		}

		if preDecrement > 0 {
			return k, true, time.Time{}
		}
	}

	return "", false, minResetAt
}

// refreshAll re-queries live quota for every credential in the pool and
// overwrites the cached values. Not a monotone merge: after an exhausted
// pass the live reading is authoritative.
func (p *Pool) refreshAll(ctx context.Context) error {
	p.mu.Lock()
	keys := make([]string, len(p.order))
	copy(keys, p.order)
	p.mu.Unlock()

	for _, k := range keys {
		remaining, resetAt, err := p.prober.Probe(ctx, k)
		if err != nil {
			return fmt.Errorf("probing %s: %w", mask(k), err)
		}

		p.mu.Lock()
		if c, found := p.creds[k]; found {
			c.remaining = remaining
			c.resetAt = resetAt
		}
		p.mu.Unlock()
	}
	return nil
}

// Set reconciles an authoritative reading (remaining, resetAt), as
// reported by a GitHub response's rateLimit field, with the cached
// estimate for key.
//
// Behavior:
//   - remaining: takes the minimum of reported and cached (never
//     raises the spend estimate)
//   - resetAt: takes the maximum of reported and cached (never
//     regresses the reset horizon)
//   - Unknown keys are ignored
//
// Thread-safety:
//   - Safe to call concurrently from every in-flight fetch task; no
//     coordination needed beyond this method's own short lock
//
// Parameters:
//   - key: The credential the response was fetched with
//   - remaining: data.rateLimit.remaining from the response
//   - resetAt: data.rateLimit.resetAt from the response
func (p *Pool) Set(key string, remaining int, resetAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.creds[key]
	if !ok {
		return
	}
	if remaining < c.remaining {
		c.remaining = remaining
	}
	if resetAt.After(c.resetAt) {
		c.resetAt = resetAt
	}
}

// Len reports how many credentials the pool holds.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}

// mask returns a value safe to put in logs for a bearer token: credentials
// are secrets and must never appear in full in a log line.
func mask(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
