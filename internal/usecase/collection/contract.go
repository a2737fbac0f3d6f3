package collection

import (
	"context"

	"github.com/inboxlab/mailrag/internal/repository/usage"
)

// Repository is the chunk store surface the collection service needs.
type Repository interface {
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
	EnsureIndex(ctx context.Context, model string, dimensions int) error
}

// UsageReader reads daily usage counters. Optional; may be nil.
type UsageReader interface {
	Today(ctx context.Context) (usage.Snapshot, error)
}
