// Package chi implements the HTTP API on top of the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/inboxlab/mailrag/internal/domain"
	"github.com/inboxlab/mailrag/internal/domain/email"
	"github.com/inboxlab/mailrag/internal/domain/message"
	answeruc "github.com/inboxlab/mailrag/internal/usecase/answer"
	classifyuc "github.com/inboxlab/mailrag/internal/usecase/classify"
	collectionuc "github.com/inboxlab/mailrag/internal/usecase/collection"
	healthuc "github.com/inboxlab/mailrag/internal/usecase/health"
	indexuc "github.com/inboxlab/mailrag/internal/usecase/index"
	normalizeuc "github.com/inboxlab/mailrag/internal/usecase/normalize"
	searchuc "github.com/inboxlab/mailrag/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the use case services behind the HTTP handlers.
type Server struct {
	normalize     *normalizeuc.Service
	index         *indexuc.Service
	search        *searchuc.Service
	answer        *answeruc.Service
	classify      *classifyuc.Service
	collection    *collectionuc.Service
	health        *healthuc.Service
	emails        []email.Email
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. emails is the preloaded dataset
// served by GET /v1/emails; may be empty.
func NewServer(
	normalize *normalizeuc.Service,
	index *indexuc.Service,
	search *searchuc.Service,
	answer *answeruc.Service,
	classify *classifyuc.Service,
	collection *collectionuc.Service,
	health *healthuc.Service,
	emails []email.Email,
	logger *zap.Logger,
) *Server {
	s := &Server{
		normalize:  normalize,
		index:      index,
		search:     search,
		answer:     answer,
		classify:   classify,
		collection: collection,
		health:     health,
		emails:     emails,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidEmail, http.StatusBadRequest, codeInvalidEmail),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrModelMismatch, http.StatusConflict, codeModelMismatch),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, codeGenerationFailed),
		sentinelHandler(domain.ErrVectorStore, http.StatusServiceUnavailable, codeVectorStore),
	}
	return s
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/emails", s.handleEmails)
		r.Post("/normalize", s.handleNormalize)
		r.Post("/index", s.handleIndex)
		r.Post("/search", s.handleSearch)
		r.Post("/ask", s.handleAsk)
		r.Post("/classify", s.handleClassify)
		r.Get("/stats", s.handleStats)
		r.Post("/reset", s.handleReset)
	})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

// handleEmails handles GET /v1/emails.
func (s *Server) handleEmails(w http.ResponseWriter, _ *http.Request) {
	items := make([]emailDTO, len(s.emails))
	for i := range s.emails {
		items[i] = emailToDTO(&s.emails[i])
	}
	writeJSON(w, http.StatusOK, emailsResponse{Emails: items, Count: len(items)})
}

// handleNormalize handles POST /v1/normalize.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Emails) == 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "emails list is empty")
		return
	}

	emails, err := emailsFromDTOs(req.Emails)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	msgs, err := s.normalize.Normalize(emails)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]messageDTO, len(msgs))
	for i := range msgs {
		items[i] = messageToDTO(&msgs[i])
	}
	writeJSON(w, http.StatusOK, normalizeResponse{Messages: items})
}

// handleIndex handles POST /v1/index.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "messages list is empty")
		return
	}

	msgs := make([]message.Message, 0, len(req.Messages))
	for _, d := range req.Messages {
		m, err := messageFromDTO(d)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		msgs = append(msgs, m)
	}

	count, err := s.index.Index(r.Context(), msgs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, indexResponse{Status: "ok", ChunksIndexed: count})
}

// handleSearch handles POST /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]resultDTO, len(results))
	for i := range results {
		items[i] = resultToDTO(&results[i])
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: items})
}

// handleAsk handles POST /v1/ask.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ans, err := s.answer.Ask(r.Context(), req.Question, req.TopK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	citations := ans.Citations()
	items := make([]citationDTO, len(citations))
	for i := range citations {
		items[i] = citationToDTO(&citations[i])
	}
	writeJSON(w, http.StatusOK, askResponse{Answer: ans.Text(), Citations: items})
}

// handleClassify handles POST /v1/classify.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Emails) == 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "emails list is empty")
		return
	}

	emails, err := emailsFromDTOs(req.Emails)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]classifyuc.Report{
		"results": s.classify.Classify(emails),
	})
}

// handleStats handles GET /v1/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.collection.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToDTO(st))
}

// handleReset handles POST /v1/reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.collection.Reset(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func emailsFromDTOs(dtos []emailDTO) ([]email.Email, error) {
	emails := make([]email.Email, 0, len(dtos))
	for _, d := range dtos {
		e, err := emailFromDTO(d)
		if err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidEmail,
		domain.ErrInvalidQuery,
		domain.ErrVectorDimMismatch,
		domain.ErrModelMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationFailed,
		domain.ErrVectorStore,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
