package mailrag

import (
	"github.com/inboxlab/mailrag/internal/domain"
	domanswer "github.com/inboxlab/mailrag/internal/domain/answer"
	domemail "github.com/inboxlab/mailrag/internal/domain/email"
	dommessage "github.com/inboxlab/mailrag/internal/domain/message"
	domsearch "github.com/inboxlab/mailrag/internal/domain/search"
	classifyuc "github.com/inboxlab/mailrag/internal/usecase/classify"
	collectionuc "github.com/inboxlab/mailrag/internal/usecase/collection"
)

// Sentinel errors returned by Client operations. Match with errors.Is.
var (
	ErrInvalidEmail           = domain.ErrInvalidEmail
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrGenerationFailed       = domain.ErrGenerationFailed
	ErrVectorStore            = domain.ErrVectorStore
	ErrModelMismatch          = domain.ErrModelMismatch
)

// NotFoundAnswer is the fixed answer text returned when retrieval finds
// nothing relevant.
const NotFoundAnswer = domanswer.NotFoundText

// Email is a raw email record.
type Email struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Body    string `json:"body"`
}

// Metadata is the provenance of a normalized message.
type Metadata struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
}

// Message is a normalized, indexable email.
type Message struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// SearchResult is a single retrieval hit.
type SearchResult struct {
	ID      string  `json:"id"`
	Subject string  `json:"subject"`
	Date    string  `json:"date"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// Citation references a source email grounding an answer.
type Citation struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// Answer is a generated response with its supporting citations.
type Answer struct {
	Text      string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Classification is the rule-based report for one email.
type Classification = classifyuc.Report

// Usage holds today's usage counters.
type Usage struct {
	Queries       int64 `json:"queries"`
	Answers       int64 `json:"answers"`
	ChunksIndexed int64 `json:"chunks_indexed"`
	EmbedTokens   int64 `json:"embed_tokens"`
}

// Stats describes the indexed collection.
type Stats struct {
	ChunkCount     int    `json:"chunk_count"`
	EmbeddingModel string `json:"embedding_model"`
	Dimensions     int    `json:"dimensions"`
	Usage          Usage  `json:"usage"`
}

func toInternalEmails(emails []Email) ([]domemail.Email, error) {
	out := make([]domemail.Email, 0, len(emails))
	for _, e := range emails {
		ie, err := domemail.New(e.ID, e.From, e.To, e.Subject, e.Date, e.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, ie)
	}
	return out, nil
}

func toInternalMessages(msgs []Message) ([]dommessage.Message, error) {
	out := make([]dommessage.Message, 0, len(msgs))
	for _, m := range msgs {
		meta := dommessage.NewMetadata(m.Metadata.From, m.Metadata.To, m.Metadata.Subject, m.Metadata.Date)
		im, err := dommessage.New(m.ID, m.Text, meta)
		if err != nil {
			return nil, err
		}
		out = append(out, im)
	}
	return out, nil
}

func fromInternalMessages(msgs []dommessage.Message) []Message {
	out := make([]Message, len(msgs))
	for i := range msgs {
		m := &msgs[i]
		meta := m.Metadata()
		out[i] = Message{
			ID:   m.ID(),
			Text: m.Text(),
			Metadata: Metadata{
				From: meta.From(), To: meta.To(),
				Subject: meta.Subject(), Date: meta.Date(),
			},
		}
	}
	return out
}

func fromInternalResults(results []domsearch.Result) []SearchResult {
	out := make([]SearchResult, len(results))
	for i := range results {
		r := &results[i]
		out[i] = SearchResult{
			ID:      r.ChunkID(),
			Subject: r.Subject(),
			Date:    r.Date(),
			Score:   r.Score(),
			Snippet: r.Snippet(),
		}
	}
	return out
}

func fromInternalAnswer(a domanswer.Answer) Answer {
	citations := a.Citations()
	out := make([]Citation, len(citations))
	for i := range citations {
		c := &citations[i]
		out[i] = Citation{
			ID: c.ID(), Subject: c.Subject(), Date: c.Date(), Snippet: c.Snippet(),
		}
	}
	return Answer{Text: a.Text(), Citations: out}
}

func fromInternalStats(st collectionuc.Stats) Stats {
	return Stats{
		ChunkCount:     st.ChunkCount,
		EmbeddingModel: st.EmbeddingModel,
		Dimensions:     st.Dimensions,
		Usage: Usage{
			Queries:       st.Usage.Queries,
			Answers:       st.Usage.Answers,
			ChunksIndexed: st.Usage.ChunksIndexed,
			EmbedTokens:   st.Usage.EmbedTokens,
		},
	}
}
