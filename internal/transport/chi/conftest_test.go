package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/inboxlab/mailrag/internal/domain"
	domchunk "github.com/inboxlab/mailrag/internal/domain/chunk"
	"github.com/inboxlab/mailrag/internal/domain/email"
	domsearch "github.com/inboxlab/mailrag/internal/domain/search"
	"github.com/inboxlab/mailrag/internal/repository/usage"
	answeruc "github.com/inboxlab/mailrag/internal/usecase/answer"
	classifyuc "github.com/inboxlab/mailrag/internal/usecase/classify"
	collectionuc "github.com/inboxlab/mailrag/internal/usecase/collection"
	healthuc "github.com/inboxlab/mailrag/internal/usecase/health"
	indexuc "github.com/inboxlab/mailrag/internal/usecase/index"
	normalizeuc "github.com/inboxlab/mailrag/internal/usecase/normalize"
	searchuc "github.com/inboxlab/mailrag/internal/usecase/search"
)

// --- Mocks ---

// mockBackend stands in for the vector store, the embedding provider and the
// chat provider behind all use case services.
type mockBackend struct {
	chunkCount    int
	countErr      error
	results       []domsearch.Result
	searchErr     error
	embedErr      error
	ensureErr     error
	upsertErr     error
	upserted      int
	resetErr      error
	pingErr       error
	embedCheckErr error
	answerText    string
	completeErr   error
	completeCalls int
	snapshot      usage.Snapshot
}

func (m *mockBackend) Count(context.Context) (int, error) { return m.chunkCount, m.countErr }

func (m *mockBackend) SearchKNN(_ context.Context, _ []float32, _ int) ([]domsearch.Result, error) {
	return m.results, m.searchErr
}

func (m *mockBackend) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	if m.embedErr != nil {
		return domain.EmbeddingResult{}, m.embedErr
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3, 0.4}}, nil
}

func (m *mockBackend) EnsureIndex(context.Context, string, int) error { return m.ensureErr }

func (m *mockBackend) UpsertBatch(_ context.Context, chunks []domchunk.Chunk) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted += len(chunks)
	return nil
}

func (m *mockBackend) Reset(context.Context) error { return m.resetErr }

func (m *mockBackend) Ping(context.Context) error { return m.pingErr }

func (m *mockBackend) HealthCheck(context.Context) error { return m.embedCheckErr }

func (m *mockBackend) Complete(context.Context, string, string) (domain.CompletionResult, error) {
	m.completeCalls++
	if m.completeErr != nil {
		return domain.CompletionResult{}, m.completeErr
	}
	return domain.CompletionResult{Text: m.answerText}, nil
}

func (m *mockBackend) Today(context.Context) (usage.Snapshot, error) { return m.snapshot, nil }

func hit(chunkID, emailID, subject string, score float64) domsearch.Result {
	return domsearch.New(chunkID, emailID, subject, "2026-01-15", score, "snippet for "+emailID)
}

func testEmails(t *testing.T) []email.Email {
	t.Helper()
	e, err := email.New("email-001", "a@x.com", "b@x.com", "Invoice overdue", "2026-01-15", "Please pay invoice INV-1.")
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return []email.Email{e}
}

// newTestServer wires a full router over the mock backend.
func newTestServer(t *testing.T, b *mockBackend) *chi.Mux {
	t.Helper()

	searchSvc := searchuc.New(b, b, b, nil)
	srv := NewServer(
		normalizeuc.New(),
		indexuc.New(b, b, nil, indexuc.Config{
			ChunkSize: 100, ChunkOverlap: 10, Model: "test-model", Dimensions: 4,
		}),
		searchSvc,
		answeruc.New(searchSvc, b, nil),
		classifyuc.New(),
		collectionuc.New(b, b, "test-model", 4),
		healthuc.New(b, b),
		testEmails(t),
		zap.NewNop(),
	)

	r := chi.NewRouter()
	srv.Register(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func wantCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != code {
		t.Errorf("error code: got %q, want %q", resp.Code, code)
	}
}
