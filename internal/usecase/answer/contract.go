package answer

import (
	"context"

	"github.com/inboxlab/mailrag/internal/domain"
	domsearch "github.com/inboxlab/mailrag/internal/domain/search"
)

// Retriever performs semantic retrieval for the question.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]domsearch.Result, error)
}

// Completer generates the grounded answer text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (domain.CompletionResult, error)
}

// UsageRecorder records answering activity. Optional; may be nil.
type UsageRecorder interface {
	Add(ctx context.Context, metric string, n int64) error
}
