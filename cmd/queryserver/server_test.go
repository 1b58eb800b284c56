package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/craftsangjae/recohub-go/internal/index"
	"github.com/craftsangjae/recohub-go/internal/store"
)

func newTestServer() (*server, store.Store) {
	s := store.NewMemoryStore()
	eng := index.New(s, 4)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &server{store: s, index: eng, log: log.WithField("component", "test")}, s
}

func TestHandleUpdateItemThenRecommend(t *testing.T) {
	srv, _ := newTestServer()
	r := newRouter(srv)

	put := httptest.NewRequest(http.MethodPut, "/repository?repo_id=1&user_id=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, put)
	if w.Code != http.StatusCreated {
		t.Fatalf("put: got status %d, want 201", w.Code)
	}

	put2 := httptest.NewRequest(http.MethodPut, "/repository?repo_id=2&user_id=10", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, put2)
	if w2.Code != http.StatusCreated {
		t.Fatalf("put2: got status %d, want 201", w2.Code)
	}

	get := httptest.NewRequest(http.MethodGet, "/repository?repo_id=1&num_recommend=5", nil)
	wg := httptest.NewRecorder()
	r.ServeHTTP(wg, get)
	if wg.Code != http.StatusOK {
		t.Fatalf("get: got status %d, want 200", wg.Code)
	}

	var body map[string][]int64
	if err := json.Unmarshal(wg.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	found := false
	for _, id := range body["repository"] {
		if id == 2 {
			found = true
		}
		if id == 1 {
			t.Fatalf("recommend(1) included itself: %v", body["repository"])
		}
	}
	if !found {
		t.Fatalf("expected repo 2 (shares every band with repo 1) in %v", body["repository"])
	}
}

func TestHandleRecommendNotFound(t *testing.T) {
	srv, _ := newTestServer()
	r := newRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/repository?repo_id=999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}

func TestHandleMissingArgs(t *testing.T) {
	srv, _ := newTestServer()
	r := newRouter(srv)

	req := httptest.NewRequest(http.MethodPut, "/repository?repo_id=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404 for missing user_id", w.Code)
	}
}

func TestHandleRecommendDefaultK(t *testing.T) {
	srv, s := newTestServer()
	r := newRouter(srv)
	ctx := context.Background()

	for i := int64(1); i <= 15; i++ {
		if err := srv.index.UpdateItem(ctx, i, 10); err != nil {
			t.Fatalf("updateItem(%d): %v", i, err)
		}
	}
	_ = s

	req := httptest.NewRequest(http.MethodGet, "/repository?repo_id=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	var body map[string][]int64
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body["repository"]) != defaultNumRecommend {
		t.Fatalf("got %d results, want default %d", len(body["repository"]), defaultNumRecommend)
	}
}
