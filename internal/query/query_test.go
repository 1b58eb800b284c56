package query

import (
	"context"
	"testing"

	"github.com/craftsangjae/recohub-go/internal/codec"
	"github.com/craftsangjae/recohub-go/internal/store"
)

func putSignature(t *testing.T, s store.Store, item int64, sig []uint64) {
	t.Helper()
	enc, err := codec.EncodeUint64(sig)
	if err != nil {
		t.Fatalf("encode signature: %v", err)
	}
	if err := s.MSet(context.Background(), map[string][]byte{itemKey(item): enc}); err != nil {
		t.Fatalf("mset signature: %v", err)
	}
}

func putPostingList(t *testing.T, s store.Store, band int, value uint64, items []int64) {
	t.Helper()
	enc, err := codec.Encode(items)
	if err != nil {
		t.Fatalf("encode posting list: %v", err)
	}
	if err := s.MSet(context.Background(), map[string][]byte{postingKey(band, value): enc}); err != nil {
		t.Fatalf("mset posting list: %v", err)
	}
}

func TestRecommendRanksByCollisionCount(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	// Item 3's signature shares band 0 and band 1 with item 1, and band 2
	// with item 2; item 1 thus collides with item 3 twice, item 2 once.
	putSignature(t, s, 1, []uint64{10, 20, 30, 40})
	putSignature(t, s, 2, []uint64{11, 21, 31, 41})
	putSignature(t, s, 3, []uint64{10, 20, 31, 99})

	putPostingList(t, s, 0, 10, []int64{1, 3})
	putPostingList(t, s, 1, 20, []int64{1, 3})
	putPostingList(t, s, 2, 30, []int64{1})
	putPostingList(t, s, 3, 40, []int64{1})

	putPostingList(t, s, 0, 11, []int64{2})
	putPostingList(t, s, 1, 21, []int64{2})
	putPostingList(t, s, 2, 31, []int64{2, 3})
	putPostingList(t, s, 3, 41, []int64{2})

	putPostingList(t, s, 3, 99, []int64{3})

	got, err := Recommend(ctx, s, 3, 2)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	want := []int64{1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRecommendExcludesSelf(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	putSignature(t, s, 5, []uint64{1, 2})
	putPostingList(t, s, 0, 1, []int64{5})
	putPostingList(t, s, 1, 2, []int64{5})

	got, err := Recommend(ctx, s, 5, 10)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	for _, id := range got {
		if id == 5 {
			t.Fatalf("recommend(5) included 5: %v", got)
		}
	}
}

func TestRecommendNotFound(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := Recommend(context.Background(), s, 999, 10)
	if err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
