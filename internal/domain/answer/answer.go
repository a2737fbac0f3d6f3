// Package answer defines the generated answer and its citations.
package answer

// NotFoundText is the fixed answer returned when retrieval finds nothing.
// Deterministic: no LLM call is made for an empty retrieval.
const NotFoundText = "I couldn't find any relevant emails to answer your question."

// Citation references a source chunk used to ground an answer.
type Citation struct {
	id      string
	subject string
	date    string
	snippet string
}

// NewCitation creates a citation.
func NewCitation(id, subject, date, snippet string) Citation {
	return Citation{id: id, subject: subject, date: date, snippet: snippet}
}

// ID returns the source email identifier.
func (c *Citation) ID() string { return c.id }

// Subject returns the source email subject.
func (c *Citation) Subject() string { return c.subject }

// Date returns the source email date.
func (c *Citation) Date() string { return c.date }

// Snippet returns the excerpt that was supplied to the model.
func (c *Citation) Snippet() string { return c.snippet }

// Answer is a generated response with its supporting citations, ordered by
// retrieval rank. Ephemeral, returned per query.
type Answer struct {
	text      string
	citations []Citation
}

// New creates an answer.
func New(text string, citations []Citation) Answer {
	return Answer{text: text, citations: citations}
}

// NotFound returns the fixed no-information answer with an empty citation list.
func NotFound() Answer {
	return Answer{text: NotFoundText}
}

// Text returns the generated answer text.
func (a *Answer) Text() string { return a.text }

// Citations returns the supporting citations in retrieval order.
func (a *Answer) Citations() []Citation { return a.citations }
