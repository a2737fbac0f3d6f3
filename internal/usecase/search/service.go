// Package search retrieves the chunks most similar to a query.
package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inboxlab/mailrag/internal/domain"
	domsearch "github.com/inboxlab/mailrag/internal/domain/search"
	"github.com/inboxlab/mailrag/internal/logger"
	"github.com/inboxlab/mailrag/internal/repository/usage"
)

// Service handles semantic retrieval.
type Service struct {
	repo        Repository
	chunks      ChunkCounter
	embed       Embedder
	usage       UsageRecorder
	defaultTopK int
	maxTopK     int
}

// New creates a search service. recorder may be nil.
func New(repo Repository, chunks ChunkCounter, embed Embedder, recorder UsageRecorder) *Service {
	return &Service{
		repo:        repo,
		chunks:      chunks,
		embed:       embed,
		usage:       recorder,
		defaultTopK: 5,
		maxTopK:     20,
	}
}

// WithTopK configures the default and maximum result counts.
func (s *Service) WithTopK(defaultTopK, maxTopK int) *Service {
	if defaultTopK > 0 {
		s.defaultTopK = defaultTopK
	}
	if maxTopK > 0 {
		s.maxTopK = maxTopK
	}
	return s
}

// Search embeds the query and returns up to topK results ordered by
// descending similarity, ties broken by chunk id. topK outside [1, max] is
// clamped. An empty collection yields an empty slice, not an error, and
// skips the embedding call entirely.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]domsearch.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty: %w", domain.ErrInvalidQuery)
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}
	if topK > s.maxTopK {
		topK = s.maxTopK
	}

	count, err := s.chunks.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	embRes, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	results, err := s.repo.SearchKNN(ctx, embRes.Embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	if len(results) > topK {
		results = results[:topK]
	}

	s.record(ctx, embRes.TotalTokens)

	return results, nil
}

// record bumps usage counters; failures are logged, never surfaced.
func (s *Service) record(ctx context.Context, tokens int) {
	if s.usage == nil {
		return
	}
	if err := s.usage.Add(ctx, usage.MetricQueries, 1); err != nil {
		logger.FromContext(ctx).Warn("Failed to record query", zap.Error(err))
	}
	if err := s.usage.Add(ctx, usage.MetricEmbedTokens, int64(tokens)); err != nil {
		logger.FromContext(ctx).Warn("Failed to record embedding tokens", zap.Error(err))
	}
}
