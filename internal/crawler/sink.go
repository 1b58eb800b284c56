package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentSink persists a fetched repository document, upserting by
// doc["id"].
type DocumentSink interface {
	Put(ctx context.Context, doc map[string]any) error
}

// ErrorSink is the append-only log that permanent GraphQL failures (an
// errors payload, or a response missing data.repository) are recorded to.
// Entries here are never requeued.
type ErrorSink interface {
	Put(ctx context.Context, entry map[string]any) error
}

// MongoSink is the production DocumentSink, writing repository documents
// into a Mongo collection keyed by _id.
type MongoSink struct {
	coll *mongo.Collection
}

// NewMongoSink returns a MongoSink writing documents into coll.
func NewMongoSink(coll *mongo.Collection) *MongoSink {
	return &MongoSink{coll: coll}
}

// Put upserts doc by its "id" field, replacing any existing document
// with the same id — idempotent by construction, so a requeued fetch
// that eventually succeeds after a prior partial failure never
// duplicates a document.
func (m *MongoSink) Put(ctx context.Context, doc map[string]any) error {
	id, ok := doc["id"]
	if !ok {
		return fmt.Errorf("document missing id field")
	}

	_, err := m.coll.ReplaceOne(
		ctx,
		bson.M{"_id": id},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo upsert: %w", err)
	}
	return nil
}

// FileSystemSink is an append-only ErrorSink backed by a local file, one
// JSON object per line. Each entry carries the (owner, name) that
// produced the failed response alongside the response's errors payload.
type FileSystemSink struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileSystemSink opens (creating if needed) path for appending.
func NewFileSystemSink(path string) (*FileSystemSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open error sink file: %w", err)
	}
	return &FileSystemSink{file: f}, nil
}

// Put appends entry as a single JSON line.
func (f *FileSystemSink) Put(_ context.Context, entry map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal error entry: %w", err)
	}
	raw = append(raw, '\n')
	if _, err := f.file.Write(raw); err != nil {
		return fmt.Errorf("write error entry: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (f *FileSystemSink) Close() error {
	return f.file.Close()
}
