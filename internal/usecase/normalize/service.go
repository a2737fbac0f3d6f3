// Package normalize converts raw emails into normalized messages.
package normalize

import (
	"fmt"

	"github.com/inboxlab/mailrag/internal/domain"
	"github.com/inboxlab/mailrag/internal/domain/email"
	"github.com/inboxlab/mailrag/internal/domain/message"
)

// Service is the normalizer. Pure transformation, no side effects.
type Service struct{}

// New creates a normalize service.
func New() *Service {
	return &Service{}
}

// Normalize converts emails into messages, one per email, preserving input
// order. Rejects the whole batch before producing output if any record is
// missing its id or body.
func (s *Service) Normalize(emails []email.Email) ([]message.Message, error) {
	for i := range emails {
		e := &emails[i]
		if e.ID() == "" {
			return nil, fmt.Errorf("email [%d] has no id: %w", i, domain.ErrInvalidEmail)
		}
		if e.Body() == "" {
			return nil, fmt.Errorf("email %q has no body: %w", e.ID(), domain.ErrInvalidEmail)
		}
	}

	messages := make([]message.Message, 0, len(emails))
	for i := range emails {
		e := &emails[i]
		meta := message.NewMetadata(e.From(), e.To(), e.Subject(), e.Date())
		msg, err := message.New(e.ID(), FormatText(e), meta)
		if err != nil {
			return nil, fmt.Errorf("normalize email %q: %w", e.ID(), err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// FormatText renders the retrievable text of an email: a header block, a blank
// line, then the body. The layout is part of the index contract — chunk
// boundaries and retrieval quality depend on it — so it must stay stable.
func FormatText(e *email.Email) string {
	return fmt.Sprintf("From: %s\nTo: %s\nSubject: %s\nDate: %s\n\n%s",
		e.From(), e.To(), e.Subject(), e.Date(), e.Body())
}
