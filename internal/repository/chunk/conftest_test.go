package chunk

import (
	"context"
	"testing"

	"github.com/inboxlab/mailrag/internal/db"
	domchunk "github.com/inboxlab/mailrag/internal/domain/chunk"
	"github.com/inboxlab/mailrag/internal/domain/message"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	kv          map[string][]byte
	hashes      map[string]map[string]string
	createErr   error
	createCalls int
	dropCalls   int
	searchCount int
	countErr    error
	lastDef     *db.IndexDefinition
}

func newMockStore() *mockStore {
	return &mockStore{
		kv:     make(map[string][]byte),
		hashes: make(map[string]map[string]string),
	}
}

func (m *mockStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	for _, it := range items {
		m.hashes[it.Key] = it.Fields
	}
	return nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.kv, key)
	delete(m.hashes, key)
	return nil
}

func (m *mockStore) Scan(_ context.Context, _ string) ([]string, error) {
	keys := make([]string, 0, len(m.hashes))
	for k := range m.hashes {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	m.kv[key] = value
	return nil
}

func (m *mockStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	m.createCalls++
	m.lastDef = def
	return m.createErr
}

func (m *mockStore) DropIndex(_ context.Context, _ string) error {
	m.dropCalls++
	return nil
}

func (m *mockStore) SearchCount(_ context.Context, _, _ string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.searchCount, nil
}

func testChunk(t *testing.T, msgID string, idx int, vector []float32) domchunk.Chunk {
	t.Helper()
	meta := message.NewMetadata("a@x.com", "b@x.com", "subj", "2026-01-01")
	c := domchunk.New(msgID, idx, idx*10, "chunk text", meta)
	if vector != nil {
		c = c.WithVector(vector)
	}
	return c
}
