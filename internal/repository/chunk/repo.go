// Package chunk persists chunks as Redis hashes under an FT vector index.
package chunk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inboxlab/mailrag/internal/db"
	"github.com/inboxlab/mailrag/internal/domain"
	domchunk "github.com/inboxlab/mailrag/internal/domain/chunk"
)

const (
	keyPrefix = domain.KeyPrefix + "chunk:"
	indexKey  = domain.KeyPrefix + "chunks:idx"
	metaKey   = domain.KeyPrefix + "index:meta"
)

// store is the consumer interface for chunk persistence.
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// HNSWConfig tunes the vector index construction.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Fingerprint pins the embedding model of an index. Mixing models in one
// collection breaks similarity comparison, so the fingerprint written at
// creation time is checked on every subsequent open.
type Fingerprint struct {
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
}

// Repo implements the chunk storage contract of the index and collection services.
type Repo struct {
	store store
	hnsw  HNSWConfig
}

// New creates a chunk repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// WithHNSW overrides HNSW construction parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// IndexName returns the FT index the repository writes under.
func (r *Repo) IndexName() string { return indexKey }

// EnsureIndex creates the FT index if absent and verifies the stored embedding
// model fingerprint. A fingerprint mismatch means the caller must Reset first.
func (r *Repo) EnsureIndex(ctx context.Context, model string, dimensions int) error {
	want := Fingerprint{Model: model, Dimensions: dimensions}

	raw, err := r.store.Get(ctx, metaKey)
	switch {
	case err == nil:
		var have Fingerprint
		if err := json.Unmarshal(raw, &have); err != nil {
			return fmt.Errorf("parse index fingerprint: %w", err)
		}
		if have != want {
			return fmt.Errorf(
				"index built with %s/%d, configured %s/%d: %w",
				have.Model, have.Dimensions, want.Model, want.Dimensions, domain.ErrModelMismatch,
			)
		}
	case errors.Is(err, db.ErrKeyNotFound):
		data, err := json.Marshal(want)
		if err != nil {
			return fmt.Errorf("marshal index fingerprint: %w", err)
		}
		if err := r.store.Set(ctx, metaKey, data); err != nil {
			return fmt.Errorf("store index fingerprint: %w", err)
		}
	default:
		return fmt.Errorf("read index fingerprint: %w", err)
	}

	err = r.store.CreateIndex(ctx, r.indexDefinition(dimensions))
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create chunk index: %w: %w", err, domain.ErrVectorStore)
	}
	return nil
}

// UpsertBatch persists chunks keyed by chunk id in a single pipelined call.
// Within a message, chunks arrive ordered by offset; re-running the same input
// overwrites rather than duplicates.
func (r *Repo) UpsertBatch(ctx context.Context, chunks []domchunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(chunks))
	for i := range chunks {
		c := &chunks[i]
		if len(c.Vector()) == 0 {
			return fmt.Errorf("chunk %s has no vector: %w", c.ID(), domain.ErrVectorStore)
		}
		items[i] = db.HashSetItem{
			Key:    keyPrefix + c.ID(),
			Fields: buildHashFields(c),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert %d chunks: %w: %w", len(chunks), err, domain.ErrVectorStore)
	}
	return nil
}

// Count returns the number of indexed chunks. A missing index counts as empty.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, indexKey, "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("count chunks: %w: %w", err, domain.ErrVectorStore)
	}
	return n, nil
}

// Reset drops the index, deletes every chunk key and the model fingerprint.
func (r *Repo) Reset(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, indexKey); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop chunk index: %w: %w", err, domain.ErrVectorStore)
	}

	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("scan chunk keys: %w: %w", err, domain.ErrVectorStore)
	}
	for _, key := range keys {
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w: %w", key, err, domain.ErrVectorStore)
		}
	}

	if err := r.store.Del(ctx, metaKey); err != nil {
		return fmt.Errorf("delete index fingerprint: %w: %w", err, domain.ErrVectorStore)
	}
	return nil
}

func (r *Repo) indexDefinition(dimensions int) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:        indexKey,
		StorageType: db.StorageHash,
		Prefixes:    []string{keyPrefix},
		Fields: []db.IndexField{
			{Name: fieldEmailID, Type: db.IndexFieldTag},
			{Name: fieldChunkIndex, Type: db.IndexFieldNumeric},
			{
				Name:              fieldVector,
				Alias:             "vector",
				Type:              db.IndexFieldVector,
				VectorDim:         dimensions,
				VectorAlgo:        db.VectorHNSW,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.hnsw.M,
				VectorEFConstruct: r.hnsw.EFConstruct,
			},
		},
	}
}
