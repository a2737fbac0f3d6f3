// Package collection exposes admin operations over the indexed chunk set.
package collection

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inboxlab/mailrag/internal/logger"
	"github.com/inboxlab/mailrag/internal/repository/usage"
)

// Stats describes the current state of the collection.
type Stats struct {
	ChunkCount     int
	EmbeddingModel string
	Dimensions     int
	Usage          usage.Snapshot
}

// Service implements collection stats and reset.
type Service struct {
	repo       Repository
	reader     UsageReader
	model      string
	dimensions int
}

// New creates a collection service bound to the configured embedding identity.
// reader may be nil.
func New(repo Repository, reader UsageReader, model string, dimensions int) *Service {
	return &Service{repo: repo, reader: reader, model: model, dimensions: dimensions}
}

// Stats returns the chunk count, the embedding identity of the index, and
// today's usage counters. Usage read failures are logged, not surfaced: stats
// must stay available while counters are degraded.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count chunks: %w", err)
	}

	st := Stats{ChunkCount: count, EmbeddingModel: s.model, Dimensions: s.dimensions}

	if s.reader != nil {
		snap, err := s.reader.Today(ctx)
		if err != nil {
			logger.FromContext(ctx).Warn("Failed to read usage counters", zap.Error(err))
		} else {
			st.Usage = snap
		}
	}

	return st, nil
}

// Reset drops every chunk and the index, then recreates an empty index with
// the configured embedding identity so the collection is immediately
// writable again.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return fmt.Errorf("reset collection: %w", err)
	}
	if err := s.repo.EnsureIndex(ctx, s.model, s.dimensions); err != nil {
		return fmt.Errorf("recreate index: %w", err)
	}
	return nil
}
