package usage

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/inboxlab/mailrag/internal/db"
)

// mockKV implements the consumer interface for tests.
type mockKV struct {
	counters    map[string]int64
	expired     map[string]time.Duration
	getErr      error
	incrErr     error
	expireCalls int
}

func newMockKV() *mockKV {
	return &mockKV{counters: make(map[string]int64), expired: make(map[string]time.Duration)}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	n, ok := m.counters[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(strconv.FormatInt(n, 10)), nil
}

func (m *mockKV) IncrBy(_ context.Context, key string, val int64) error {
	if m.incrErr != nil {
		return m.incrErr
	}
	m.counters[key] += val
	return nil
}

func (m *mockKV) Expire(_ context.Context, key string, ttl time.Duration, _ bool) error {
	m.expireCalls++
	m.expired[key] = ttl
	return nil
}

func fixedStore(kv *mockKV) *Store {
	s := New(kv)
	s.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	}
	return s
}

func TestAdd_IncrementsDayKey(t *testing.T) {
	kv := newMockKV()
	s := fixedStore(kv)

	if err := s.Add(context.Background(), MetricQueries, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add(context.Background(), MetricQueries, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := "mailrag:usage:queries:2026-03-14"
	if got := kv.counters[key]; got != 3 {
		t.Errorf("counter %s = %d, want 3", key, got)
	}
	if ttl := kv.expired[key]; ttl != 48*time.Hour {
		t.Errorf("ttl = %v, want 48h", ttl)
	}
}

func TestAdd_ZeroIsNoop(t *testing.T) {
	kv := newMockKV()
	s := fixedStore(kv)

	if err := s.Add(context.Background(), MetricAnswers, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kv.counters) != 0 || kv.expireCalls != 0 {
		t.Error("zero increment must not touch the store")
	}
}

func TestToday(t *testing.T) {
	kv := newMockKV()
	kv.counters["mailrag:usage:queries:2026-03-14"] = 5
	kv.counters["mailrag:usage:chunks_indexed:2026-03-14"] = 120
	s := fixedStore(kv)

	snap, err := s.Today(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Queries != 5 || snap.ChunksIndexed != 120 || snap.Answers != 0 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestToday_MissingKeysReadAsZero(t *testing.T) {
	s := fixedStore(newMockKV())

	snap, err := s.Today(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap != (Snapshot{}) {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}
