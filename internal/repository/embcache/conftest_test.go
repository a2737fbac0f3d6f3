package embcache

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/inboxlab/mailrag/internal/db"
	"github.com/inboxlab/mailrag/internal/domain"
)

// --- Mocks ---

type mockEmbedder struct {
	vec         []float32
	tokensPer   int
	err         error
	embedCalls  int
	batchCalls  int
	lastBatchIn []string
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.embedCalls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{
		Embedding:    m.vec,
		PromptTokens: m.tokensPer,
		TotalTokens:  m.tokensPer,
	}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.lastBatchIn = texts
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = m.vec
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: m.tokensPer * len(texts),
		TotalTokens:  m.tokensPer * len(texts),
	}, nil
}

// mockKVStore is a map-backed key-value store with optional error injection.
type mockKVStore struct {
	data   map[string][]byte
	getErr error
	sets   int
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: make(map[string][]byte)}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	val, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return val, nil
}

func (m *mockKVStore) Set(_ context.Context, key string, value []byte) error {
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockKVStore) seed(text string, vec []float32) {
	h := &CachedEmbedder{}
	m.data[h.cacheKey(text)] = vectorToCacheBytes(vec)
}

func newTestCachedEmbedder(t *testing.T, inner *mockEmbedder) (*CachedEmbedder, *mockKVStore) {
	t.Helper()
	ms := newMockKVStore()
	return New(inner, ms, nil, zap.NewNop()), ms
}

var errProviderDown = errors.New("provider down")
