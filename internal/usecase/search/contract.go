package search

import (
	"context"

	"github.com/inboxlab/mailrag/internal/domain"
	domsearch "github.com/inboxlab/mailrag/internal/domain/search"
)

// Repository defines the storage contract for KNN retrieval.
type Repository interface {
	SearchKNN(ctx context.Context, vector []float32, k int) ([]domsearch.Result, error)
}

// ChunkCounter reports collection size, used for the empty-collection short-circuit.
type ChunkCounter interface {
	Count(ctx context.Context) (int, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// UsageRecorder records retrieval activity. Optional; may be nil.
type UsageRecorder interface {
	Add(ctx context.Context, metric string, n int64) error
}
