// Package answer generates grounded answers from retrieved email chunks.
package answer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domanswer "github.com/inboxlab/mailrag/internal/domain/answer"
	"github.com/inboxlab/mailrag/internal/logger"
	"github.com/inboxlab/mailrag/internal/repository/usage"
)

// Service handles question answering over the indexed emails.
type Service struct {
	retriever Retriever
	completer Completer
	usage     UsageRecorder
}

// New creates an answer service. recorder may be nil.
func New(retriever Retriever, completer Completer, recorder UsageRecorder) *Service {
	return &Service{retriever: retriever, completer: completer, usage: recorder}
}

// Ask retrieves context for the question and generates an answer grounded in it.
//
// Zero retrieved chunks short-circuit to the fixed not-found answer without an
// LLM call. A completion failure after successful retrieval surfaces as
// domain.ErrGenerationFailed, distinct from the empty-retrieval outcome.
//
// Citations are exactly the retrieved chunks that went into the prompt, in
// retrieval order: the model's own inline references are not parsed, so the
// citation list never depends on how well the model followed instructions.
func (s *Service) Ask(ctx context.Context, question string, topK int) (domanswer.Answer, error) {
	results, err := s.retriever.Search(ctx, question, topK)
	if err != nil {
		return domanswer.Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	if len(results) == 0 {
		return domanswer.NotFound(), nil
	}

	res, err := s.completer.Complete(ctx, systemPrompt, buildPrompt(question, results))
	if err != nil {
		return domanswer.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	citations := make([]domanswer.Citation, len(results))
	for i := range results {
		r := &results[i]
		citations[i] = domanswer.NewCitation(r.EmailID(), r.Subject(), r.Date(), r.Snippet())
	}

	s.record(ctx)

	return domanswer.New(res.Text, citations), nil
}

// record bumps the answer counter; failures are logged, never surfaced.
func (s *Service) record(ctx context.Context) {
	if s.usage == nil {
		return
	}
	if err := s.usage.Add(ctx, usage.MetricAnswers, 1); err != nil {
		logger.FromContext(ctx).Warn("Failed to record answer", zap.Error(err))
	}
}
