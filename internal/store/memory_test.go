package store

import (
	"bytes"
	"context"
	"sync"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()

	t.Run("get on empty store returns ErrKeyNotFound", func(t *testing.T) {
		s := NewMemoryStore()
		_, err := s.Get(ctx, "missing")
		if err != ErrKeyNotFound {
			t.Fatalf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("mset then get round trips", func(t *testing.T) {
		s := NewMemoryStore()
		if err := s.MSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
			t.Fatalf("mset: %v", err)
		}

		v, err := s.Get(ctx, "a")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !bytes.Equal(v, []byte("1")) {
			t.Fatalf("got %q want %q", v, "1")
		}
	})

	t.Run("mget preserves order and reports absent keys as nil", func(t *testing.T) {
		s := NewMemoryStore()
		_ = s.MSet(ctx, map[string][]byte{"a": []byte("1"), "c": []byte("3")})

		got, err := s.MGet(ctx, []string{"a", "b", "c"})
		if err != nil {
			t.Fatalf("mget: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 results, got %d", len(got))
		}
		if !bytes.Equal(got[0], []byte("1")) || got[1] != nil || !bytes.Equal(got[2], []byte("3")) {
			t.Fatalf("unexpected mget result: %v", got)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := NewMemoryStore()
		_ = s.MSet(ctx, map[string][]byte{"a": []byte("1")})

		if err := s.Delete(ctx, "a", "nonexistent"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := s.Delete(ctx, "a"); err != nil {
			t.Fatalf("delete again: %v", err)
		}
		if _, err := s.Get(ctx, "a"); err != ErrKeyNotFound {
			t.Fatalf("expected key gone after delete")
		}
	})

	t.Run("returned values are copies", func(t *testing.T) {
		s := NewMemoryStore()
		_ = s.MSet(ctx, map[string][]byte{"a": []byte("1")})

		v, _ := s.Get(ctx, "a")
		v[0] = 'X'

		v2, _ := s.Get(ctx, "a")
		if !bytes.Equal(v2, []byte("1")) {
			t.Fatalf("mutating returned value leaked into store: %q", v2)
		}
	})
}

func TestMemoryStoreLists(t *testing.T) {
	ctx := context.Background()

	t.Run("fifo order: lpush producers, rpop consumers", func(t *testing.T) {
		s := NewMemoryStore()
		_ = s.LPush(ctx, "q", []byte("first"))
		_ = s.LPush(ctx, "q", []byte("second"))
		_ = s.LPush(ctx, "q", []byte("third"))

		n, _ := s.LLen(ctx, "q")
		if n != 3 {
			t.Fatalf("expected length 3, got %d", n)
		}

		for _, want := range []string{"first", "second", "third"} {
			v, err := s.RPop(ctx, "q")
			if err != nil {
				t.Fatalf("rpop: %v", err)
			}
			if string(v) != want {
				t.Fatalf("got %q want %q", v, want)
			}
		}
	})

	t.Run("rpop on empty list returns nil, nil", func(t *testing.T) {
		s := NewMemoryStore()
		v, err := s.RPop(ctx, "empty")
		if err != nil || v != nil {
			t.Fatalf("expected (nil, nil), got (%v, %v)", v, err)
		}
	})

	t.Run("concurrent push is race-free", func(t *testing.T) {
		s := NewMemoryStore()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = s.LPush(ctx, "q", []byte{byte(i)})
			}(i)
		}
		wg.Wait()

		n, _ := s.LLen(ctx, "q")
		if n != 50 {
			t.Fatalf("expected 50 items, got %d", n)
		}
	})
}
