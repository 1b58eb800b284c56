package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/craftsangjae/recohub-go/internal/index"
	"github.com/craftsangjae/recohub-go/internal/query"
	"github.com/craftsangjae/recohub-go/internal/store"
)

// defaultNumRecommend is used when num_recommend is omitted from the GET
// /repository query string.
const defaultNumRecommend = 10

// server holds the dependencies the HTTP handlers need: a Store for
// reads (via internal/query) and an index.Engine for the write path.
type server struct {
	store store.Store
	index *index.Engine
	log   *logrus.Entry
}

// newRouter builds the chi router for the two /repository routes. Route
// decoding itself stays deliberately thin; the domain logic lives in
// internal/query and internal/index, not here.
func newRouter(s *server) chi.Router {
	r := chi.NewRouter()
	r.Get("/repository", s.handleRecommend)
	r.Put("/repository", s.handleUpdateItem)
	r.Post("/repository", s.handleUpdateItem)
	return r
}

// handleRecommend serves GET /repository, returning the top-k repositories
// most similar to the requested one.
//
// Request:
//
//	GET /repository?repo_id=100&num_recommend=5
//
// Query parameters:
//   - repo_id: The query repository id (required, integer)
//   - num_recommend: Result count k (optional, default 10)
//
// Response:
//   - 200 OK: {"repository": [id, ...]} ranked most-similar first
//   - 404 Not Found: Missing/malformed arguments, or unknown repo_id
//   - 500 Internal Server Error: Store or codec failure
func (s *server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	repoID, err := parseInt64(r.URL.Query().Get("repo_id"))
	if err != nil {
		http.Error(w, "repo_id is required and must be an integer", http.StatusNotFound)
		return
	}

	k := defaultNumRecommend
	if raw := r.URL.Query().Get("num_recommend"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "num_recommend must be an integer", http.StatusNotFound)
			return
		}
		k = n
	}

	ids, err := query.Recommend(r.Context(), s.store, repoID, k)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			http.Error(w, "repository not found", http.StatusNotFound)
			return
		}
		s.log.WithError(err).Error("recommend failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"repository": ids})
}

// handleUpdateItem serves PUT|POST /repository, folding a single
// (repository, user) observation into the index.
//
// Request:
//
//	PUT /repository?repo_id=100&user_id=42
//
// Query parameters:
//   - repo_id: The repository the observation belongs to (required)
//   - user_id: The interacting user (required)
//
// Update behavior:
//   - First observation of a repository creates its signature
//   - Later observations tighten it; only changed bands are rewritten
//
// Response:
//   - 201 Created: "Success" (the observation was folded in)
//   - 404 Not Found: Missing or malformed arguments
//   - 500 Internal Server Error: Store or codec failure
func (s *server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	repoID, err := parseInt64(r.URL.Query().Get("repo_id"))
	if err != nil {
		http.Error(w, "repo_id is required and must be an integer", http.StatusNotFound)
		return
	}
	userID, err := parseInt64(r.URL.Query().Get("user_id"))
	if err != nil {
		http.Error(w, "user_id is required and must be an integer", http.StatusNotFound)
		return
	}

	if err := s.index.UpdateItem(r.Context(), repoID, userID); err != nil {
		s.log.WithError(err).Error("updateItem failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(`"Success"`))
}

func parseInt64(raw string) (int64, error) {
	if raw == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(raw, 10, 64)
}
