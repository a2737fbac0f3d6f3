// Package search maps FT.SEARCH KNN hits to domain search results.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/inboxlab/mailrag/internal/db"
	"github.com/inboxlab/mailrag/internal/domain"
	domsearch "github.com/inboxlab/mailrag/internal/domain/search"
)

const (
	keyPrefix = domain.KeyPrefix + "chunk:"
	indexKey  = domain.KeyPrefix + "chunks:idx"
)

// Returned hash fields; must match what the chunk repository writes.
var returnFields = []string{"__content", "email_id", "subject", "date", "__vector_score"}

// store is the consumer interface for KNN search.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the retrieval storage contract of the search service.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN returns up to k results for the query vector, ordered by
// descending similarity with ties broken by chunk id for determinism.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, k int) ([]domsearch.Result, error) {
	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexKey,
		Vector:       vector,
		K:            k,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w: %w", err, domain.ErrVectorStore)
	}

	results := make([]domsearch.Result, 0, len(res.Entries))
	for _, entry := range res.Entries {
		chunkID := strings.TrimPrefix(entry.Key, keyPrefix)
		results = append(results, domsearch.New(
			chunkID,
			entry.Fields["email_id"],
			entry.Fields["subject"],
			entry.Fields["date"],
			entry.Score,
			domsearch.Snippet(entry.Fields["__content"]),
		))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score() != results[j].Score() {
			return results[i].Score() > results[j].Score()
		}
		return results[i].ChunkID() < results[j].ChunkID()
	})

	return results, nil
}
