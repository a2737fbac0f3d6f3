package chi

import (
	"github.com/inboxlab/mailrag/internal/domain/answer"
	"github.com/inboxlab/mailrag/internal/domain/email"
	"github.com/inboxlab/mailrag/internal/domain/message"
	"github.com/inboxlab/mailrag/internal/domain/search"
	"github.com/inboxlab/mailrag/internal/usecase/collection"
)

// emailDTO is the wire shape of a raw email.
type emailDTO struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Body    string `json:"body"`
}

// metadataDTO is the wire shape of message metadata.
type metadataDTO struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
}

// messageDTO is the wire shape of a normalized message.
type messageDTO struct {
	ID       string      `json:"id"`
	Text     string      `json:"text"`
	Metadata metadataDTO `json:"metadata"`
}

// resultDTO is the wire shape of a retrieval hit.
type resultDTO struct {
	ID      string  `json:"id"`
	Subject string  `json:"subject"`
	Date    string  `json:"date"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// citationDTO is the wire shape of an answer citation.
type citationDTO struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

type normalizeRequest struct {
	Emails []emailDTO `json:"emails"`
}

type normalizeResponse struct {
	Messages []messageDTO `json:"messages"`
}

type indexRequest struct {
	Messages []messageDTO `json:"messages"`
}

type indexResponse struct {
	Status        string `json:"status"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	Results []resultDTO `json:"results"`
}

type askRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

type askResponse struct {
	Answer    string        `json:"answer"`
	Citations []citationDTO `json:"citations"`
}

type classifyRequest struct {
	Emails []emailDTO `json:"emails"`
}

type emailsResponse struct {
	Emails []emailDTO `json:"emails"`
	Count  int        `json:"count"`
}

type usageDTO struct {
	Queries       int64 `json:"queries"`
	Answers       int64 `json:"answers"`
	ChunksIndexed int64 `json:"chunks_indexed"`
	EmbedTokens   int64 `json:"embed_tokens"`
}

type statsResponse struct {
	ChunkCount     int      `json:"chunk_count"`
	EmbeddingModel string   `json:"embedding_model"`
	Dimensions     int      `json:"dimensions"`
	Usage          usageDTO `json:"usage"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest        = "bad_request"
	codeUnauthorized      = "unauthorized"
	codeInvalidEmail      = "invalid_email"
	codeInvalidQuery      = "invalid_query"
	codeVectorDimMismatch = "vector_dim_mismatch"
	codeModelMismatch     = "model_mismatch"
	codeEmbeddingProvider = "embedding_provider_error"
	codeGenerationFailed  = "generation_failed"
	codeVectorStore       = "vector_store_unavailable"
	codeInternalError     = "internal_error"
)

func emailFromDTO(d emailDTO) (email.Email, error) {
	return email.New(d.ID, d.From, d.To, d.Subject, d.Date, d.Body)
}

func emailToDTO(e *email.Email) emailDTO {
	return emailDTO{
		ID: e.ID(), From: e.From(), To: e.To(),
		Subject: e.Subject(), Date: e.Date(), Body: e.Body(),
	}
}

func messageFromDTO(d messageDTO) (message.Message, error) {
	meta := message.NewMetadata(d.Metadata.From, d.Metadata.To, d.Metadata.Subject, d.Metadata.Date)
	return message.New(d.ID, d.Text, meta)
}

func messageToDTO(m *message.Message) messageDTO {
	meta := m.Metadata()
	return messageDTO{
		ID:   m.ID(),
		Text: m.Text(),
		Metadata: metadataDTO{
			From: meta.From(), To: meta.To(),
			Subject: meta.Subject(), Date: meta.Date(),
		},
	}
}

func resultToDTO(r *search.Result) resultDTO {
	return resultDTO{
		ID:      r.ChunkID(),
		Subject: r.Subject(),
		Date:    r.Date(),
		Score:   r.Score(),
		Snippet: r.Snippet(),
	}
}

func citationToDTO(c *answer.Citation) citationDTO {
	return citationDTO{
		ID: c.ID(), Subject: c.Subject(), Date: c.Date(), Snippet: c.Snippet(),
	}
}

func statsToDTO(st collection.Stats) statsResponse {
	return statsResponse{
		ChunkCount:     st.ChunkCount,
		EmbeddingModel: st.EmbeddingModel,
		Dimensions:     st.Dimensions,
		Usage: usageDTO{
			Queries:       st.Usage.Queries,
			Answers:       st.Usage.Answers,
			ChunksIndexed: st.Usage.ChunksIndexed,
			EmbedTokens:   st.Usage.EmbedTokens,
		},
	}
}
