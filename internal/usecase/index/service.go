// Package index chunks normalized messages, embeds the chunks, and persists
// them to the vector store.
package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inboxlab/mailrag/internal/domain"
	domchunk "github.com/inboxlab/mailrag/internal/domain/chunk"
	"github.com/inboxlab/mailrag/internal/domain/message"
	"github.com/inboxlab/mailrag/internal/logger"
	"github.com/inboxlab/mailrag/internal/repository/usage"
)

// Config holds the chunking policy and the pinned embedding model identity.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	Model        string
	Dimensions   int
}

// Service handles message indexing.
type Service struct {
	repo  Repository
	embed domain.Embedder
	usage UsageRecorder
	cfg   Config
}

// New creates an index service. recorder may be nil.
func New(repo Repository, embed domain.Embedder, recorder UsageRecorder, cfg Config) *Service {
	return &Service{repo: repo, embed: embed, usage: recorder, cfg: cfg}
}

// Index chunks and embeds messages, then upserts every chunk keyed by its
// deterministic id. Returns the number of chunks written.
//
// All embeddings are computed before the first store write, so an embedding
// failure leaves the collection untouched. A store failure mid-write can leave
// a partial batch; re-running the same call converges via upsert-by-id.
func (s *Service) Index(ctx context.Context, msgs []message.Message) (int, error) {
	if len(msgs) == 0 {
		return 0, nil
	}

	if err := s.repo.EnsureIndex(ctx, s.cfg.Model, s.cfg.Dimensions); err != nil {
		return 0, fmt.Errorf("ensure index: %w", err)
	}

	chunks, err := s.split(msgs)
	if err != nil {
		return 0, err
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text()
	}

	embRes, err := domain.BatchEmbedAll(ctx, s.embed, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}

	for i, vec := range embRes.Embeddings {
		if s.cfg.Dimensions > 0 && len(vec) != s.cfg.Dimensions {
			return 0, fmt.Errorf(
				"chunk %s: got %d dimensions, want %d: %w",
				chunks[i].ID(), len(vec), s.cfg.Dimensions, domain.ErrVectorDimMismatch,
			)
		}
		chunks[i] = chunks[i].WithVector(vec)
	}

	if err := s.repo.UpsertBatch(ctx, chunks); err != nil {
		return 0, fmt.Errorf("persist chunks: %w", err)
	}

	s.record(ctx, len(chunks), embRes.TotalTokens)

	return len(chunks), nil
}

// split cuts each message into chunks ordered by offset.
func (s *Service) split(msgs []message.Message) ([]domchunk.Chunk, error) {
	var chunks []domchunk.Chunk
	for i := range msgs {
		msg := &msgs[i]
		windows, err := domchunk.Split(msg.Text(), s.cfg.ChunkSize, s.cfg.ChunkOverlap)
		if err != nil {
			return nil, fmt.Errorf("split message %q: %w", msg.ID(), err)
		}
		for idx, w := range windows {
			chunks = append(chunks, domchunk.New(msg.ID(), idx, w.Offset, w.Text, msg.Metadata()))
		}
	}
	return chunks, nil
}

// record bumps usage counters; failures are logged, never surfaced.
func (s *Service) record(ctx context.Context, chunks, tokens int) {
	if s.usage == nil {
		return
	}
	if err := s.usage.Add(ctx, usage.MetricChunksIndexed, int64(chunks)); err != nil {
		logger.FromContext(ctx).Warn("Failed to record indexed chunks", zap.Error(err))
	}
	if err := s.usage.Add(ctx, usage.MetricEmbedTokens, int64(tokens)); err != nil {
		logger.FromContext(ctx).Warn("Failed to record embedding tokens", zap.Error(err))
	}
}
