package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements the Store interface over a
// github.com/redis/go-redis/v9 client, the production backend for
// signatures, posting lists and the crawl queue alike.
//
// RedisStore characteristics:
//   - Every method is a thin, direct translation to the Redis command
//     of the same name: GET/MGET/MSET/DEL/LPUSH/RPOP/LLEN
//   - Persistent and shared across the crawler, trainer and query
//     server processes
//   - Concurrency delegated to the client's connection pool
//
// Suitable for:
//   - Production deployments of all three daemons
//
// Not suitable for:
//   - Tests (use MemoryStore; no network dependency)
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-configured *redis.Client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the value at key, or ErrKeyNotFound if Redis reports redis.Nil.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// MGet retrieves multiple keys with a single MGET call. Redis returns a nil
// interface{} for absent keys, which we translate to a nil []byte at the
// same position.
func (r *RedisStore) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(vals))
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		out[i] = []byte(s)
	}
	return out, nil
}

// MSet writes every key in kv with a single MSET call. Redis's MSET is
// atomic across all of its keys, a strictly stronger guarantee than the
// Store interface requires (per-key atomicity only); no caller relies on
// the extra strength, so behavior carries over unchanged to backends that
// don't have it.
func (r *RedisStore) MSet(ctx context.Context, kv map[string][]byte) error {
	if len(kv) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(kv)*2)
	for k, v := range kv {
		args = append(args, k, v)
	}
	return r.client.MSet(ctx, args...).Err()
}

// Delete removes every key in keys with a single DEL call. Idempotent:
// Redis's DEL never errors on a missing key.
func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// LPush pushes value onto the head of the Redis list at key.
func (r *RedisStore) LPush(ctx context.Context, key string, value []byte) error {
	return r.client.LPush(ctx, key, value).Err()
}

// RPop pops the tail of the Redis list at key. Returns (nil, nil), not an
// error, when the list is empty.
func (r *RedisStore) RPop(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.RPop(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// LLen returns the length of the Redis list at key.
func (r *RedisStore) LLen(ctx context.Context, key string) (int64, error) {
	return r.client.LLen(ctx, key).Result()
}
