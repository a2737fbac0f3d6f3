package index

import (
	"context"

	domchunk "github.com/inboxlab/mailrag/internal/domain/chunk"
)

// Repository defines the storage contract for chunk persistence.
type Repository interface {
	EnsureIndex(ctx context.Context, model string, dimensions int) error
	UpsertBatch(ctx context.Context, chunks []domchunk.Chunk) error
}

// UsageRecorder records indexing activity. Optional; may be nil.
type UsageRecorder interface {
	Add(ctx context.Context, metric string, n int64) error
}
