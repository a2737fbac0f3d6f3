// Package usage tracks daily request counters in the key-value store.
package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/inboxlab/mailrag/internal/db"
	"github.com/inboxlab/mailrag/internal/domain"
)

const keyPrefix = domain.KeyPrefix + "usage:"

// counterTTL keeps daily counters around for two days, enough for a
// yesterday-vs-today comparison without unbounded growth.
const counterTTL = 48 * time.Hour

// Counter names.
const (
	MetricQueries       = "queries"
	MetricAnswers       = "answers"
	MetricChunksIndexed = "chunks_indexed"
	MetricEmbedTokens   = "embed_tokens"
)

// Snapshot is the usage of a single day.
type Snapshot struct {
	Queries       int64
	Answers       int64
	ChunksIndexed int64
	EmbedTokens   int64
}

// kv is the consumer interface for counters.
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Store persists daily usage counters via INCRBY with a rolling TTL.
type Store struct {
	kv  kv
	now func() time.Time
}

// New creates a usage store.
func New(kv kv) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Add increments the named counter for today. Counter errors are returned but
// callers treat them as non-fatal: usage tracking must never fail a request.
func (s *Store) Add(ctx context.Context, metric string, n int64) error {
	if n == 0 {
		return nil
	}
	key := s.dayKey(metric)
	if err := s.kv.IncrBy(ctx, key, n); err != nil {
		return fmt.Errorf("incr %s: %w", key, err)
	}
	// NX: only stamp the TTL when the key was just created
	if err := s.kv.Expire(ctx, key, counterTTL, true); err != nil {
		return fmt.Errorf("expire %s: %w", key, err)
	}
	return nil
}

// Today reads today's counters.
func (s *Store) Today(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Queries, err = s.read(ctx, MetricQueries); err != nil {
		return Snapshot{}, err
	}
	if snap.Answers, err = s.read(ctx, MetricAnswers); err != nil {
		return Snapshot{}, err
	}
	if snap.ChunksIndexed, err = s.read(ctx, MetricChunksIndexed); err != nil {
		return Snapshot{}, err
	}
	if snap.EmbedTokens, err = s.read(ctx, MetricEmbedTokens); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) read(ctx context.Context, metric string) (int64, error) {
	raw, err := s.kv.Get(ctx, s.dayKey(metric))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read %s: %w", metric, err)
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s counter: %w", metric, err)
	}
	return n, nil
}

func (s *Store) dayKey(metric string) string {
	return keyPrefix + metric + ":" + s.now().UTC().Format("2006-01-02")
}
