// Package message defines the normalized message, the unit of indexing.
package message

import (
	"fmt"

	"github.com/inboxlab/mailrag/internal/domain"
)

// Metadata holds the header fields carried alongside a normalized message.
// Copied verbatim onto every chunk so each hit can be traced to its source email.
type Metadata struct {
	from    string
	to      string
	subject string
	date    string
}

// NewMetadata creates message metadata.
func NewMetadata(from, to, subject, date string) Metadata {
	return Metadata{from: from, to: to, subject: subject, date: date}
}

// From returns the sender address.
func (m *Metadata) From() string { return m.from }

// To returns the recipient address.
func (m *Metadata) To() string { return m.to }

// Subject returns the subject line.
func (m *Metadata) Subject() string { return m.subject }

// Date returns the date header.
func (m *Metadata) Date() string { return m.date }

// Message is a normalized email: flat retrievable text plus metadata.
// Immutable after creation; exactly one per source email.
type Message struct {
	id   string
	text string
	meta Metadata
}

// New validates and creates a Message.
func New(id, text string, meta Metadata) (Message, error) {
	if id == "" {
		return Message{}, fmt.Errorf("message id is required: %w", domain.ErrInvalidEmail)
	}
	if text == "" {
		return Message{}, fmt.Errorf("message %q has no text: %w", id, domain.ErrInvalidEmail)
	}
	return Message{id: id, text: text, meta: meta}, nil
}

// ID returns the message identifier (derived from the source email id).
func (m *Message) ID() string { return m.id }

// Text returns the flat retrievable text.
func (m *Message) Text() string { return m.text }

// Metadata returns the carried header fields.
func (m *Message) Metadata() Metadata { return m.meta }
