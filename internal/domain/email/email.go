// Package email defines the raw email record, the external input of the pipeline.
package email

import (
	"fmt"

	"github.com/inboxlab/mailrag/internal/domain"
)

// Email is a raw email record (immutable value object).
type Email struct {
	id      string
	from    string
	to      string
	subject string
	date    string
	body    string
}

// New validates and creates an Email. ID and body are mandatory; the remaining
// header fields may be empty (degraded but indexable input).
func New(id, from, to, subject, date, body string) (Email, error) {
	if id == "" {
		return Email{}, fmt.Errorf("email id is required: %w", domain.ErrInvalidEmail)
	}
	if body == "" {
		return Email{}, fmt.Errorf("email %q has no body: %w", id, domain.ErrInvalidEmail)
	}
	return Email{id: id, from: from, to: to, subject: subject, date: date, body: body}, nil
}

// ID returns the email identifier.
func (e *Email) ID() string { return e.id }

// From returns the sender address.
func (e *Email) From() string { return e.from }

// To returns the recipient address.
func (e *Email) To() string { return e.to }

// Subject returns the subject line.
func (e *Email) Subject() string { return e.subject }

// Date returns the date header as supplied by the source.
func (e *Email) Date() string { return e.date }

// Body returns the plain-text body.
func (e *Email) Body() string { return e.body }
