// Package search defines the search result, the per-query output of retrieval.
package search

// SnippetLimit is the maximum snippet length in runes.
const SnippetLimit = 200

// Result is a single retrieval hit. Ephemeral, produced per query.
type Result struct {
	chunkID string
	emailID string
	subject string
	date    string
	score   float64
	snippet string
}

// New creates a search result.
func New(chunkID, emailID, subject, date string, score float64, snippet string) Result {
	return Result{
		chunkID: chunkID, emailID: emailID, subject: subject,
		date: date, score: score, snippet: snippet,
	}
}

// ChunkID returns the identifier of the matched chunk.
func (r *Result) ChunkID() string { return r.chunkID }

// EmailID returns the identifier of the source email.
func (r *Result) EmailID() string { return r.emailID }

// Subject returns the source email subject.
func (r *Result) Subject() string { return r.subject }

// Date returns the source email date.
func (r *Result) Date() string { return r.date }

// Score returns the cosine similarity, clamped to [0, 1].
func (r *Result) Score() float64 { return r.score }

// Snippet returns the bounded-length excerpt of the chunk text.
func (r *Result) Snippet() string { return r.snippet }

// Snippet truncates text to at most SnippetLimit runes, appending "..." when cut.
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= SnippetLimit {
		return text
	}
	return string(runes[:SnippetLimit]) + "..."
}
