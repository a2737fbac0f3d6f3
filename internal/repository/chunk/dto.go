package chunk

import (
	"encoding/binary"
	"math"
	"strconv"

	domchunk "github.com/inboxlab/mailrag/internal/domain/chunk"
)

// Hash field names. fieldVector and fieldContent use the double-underscore
// convention to stay clear of metadata fields.
const (
	fieldContent    = "__content"
	fieldVector     = "__vector"
	fieldEmailID    = "email_id"
	fieldFrom       = "from"
	fieldTo         = "to"
	fieldSubject    = "subject"
	fieldDate       = "date"
	fieldChunkIndex = "chunk_index"
	fieldOffset     = "offset"
)

// buildHashFields converts a chunk into a flat map[string]string for HSET.
func buildHashFields(c *domchunk.Chunk) map[string]string {
	meta := c.Metadata()
	return map[string]string{
		fieldContent:    c.Text(),
		fieldVector:     vectorToBytes(c.Vector()),
		fieldEmailID:    c.MessageID(),
		fieldFrom:       meta.From(),
		fieldTo:         meta.To(),
		fieldSubject:    meta.Subject(),
		fieldDate:       meta.Date(),
		fieldChunkIndex: strconv.Itoa(c.Index()),
		fieldOffset:     strconv.Itoa(c.Offset()),
	}
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
