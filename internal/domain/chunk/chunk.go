// Package chunk defines the chunk, the unit of embedding and retrieval,
// and the splitting policy that produces chunks from message text.
package chunk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inboxlab/mailrag/internal/domain/message"
)

// Chunk is a bounded window of a message's text with its embedding vector.
// Immutable; owned by the vector store once upserted.
type Chunk struct {
	messageID string
	index     int
	offset    int
	text      string
	vector    []float32
	meta      message.Metadata
}

// New creates a Chunk. The vector is attached later, after embedding.
func New(messageID string, index, offset int, text string, meta message.Metadata) Chunk {
	return Chunk{messageID: messageID, index: index, offset: offset, text: text, meta: meta}
}

// ID returns the deterministic chunk identifier: "<messageID>:<index>".
// Stable across re-indexing runs, which is what makes upserts idempotent.
func (c *Chunk) ID() string {
	return fmt.Sprintf("%s:%d", c.messageID, c.index)
}

// ParseID splits a chunk id back into message id and chunk index.
func ParseID(id string) (string, int, error) {
	sep := strings.LastIndexByte(id, ':')
	if sep < 0 {
		return "", 0, fmt.Errorf("malformed chunk id %q", id)
	}
	idx, err := strconv.Atoi(id[sep+1:])
	if err != nil {
		return "", 0, fmt.Errorf("malformed chunk id %q: %w", id, err)
	}
	return id[:sep], idx, nil
}

// MessageID returns the parent message identifier.
func (c *Chunk) MessageID() string { return c.messageID }

// Index returns the zero-based position of this chunk within its message.
func (c *Chunk) Index() int { return c.index }

// Offset returns the rune offset of the chunk within the message text.
func (c *Chunk) Offset() int { return c.offset }

// Text returns the chunk text.
func (c *Chunk) Text() string { return c.text }

// Vector returns the embedding vector, nil before embedding.
func (c *Chunk) Vector() []float32 { return c.vector }

// Metadata returns the metadata copied from the parent message.
func (c *Chunk) Metadata() message.Metadata { return c.meta }

// WithVector returns a copy with the embedding vector attached.
func (c *Chunk) WithVector(v []float32) Chunk {
	return Chunk{
		messageID: c.messageID, index: c.index, offset: c.offset,
		text: c.text, vector: v, meta: c.meta,
	}
}
