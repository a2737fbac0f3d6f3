package embcache

import (
	"context"
	"errors"
	"testing"
)

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &mockEmbedder{vec: []float32{0.1, 0.2, 0.3}, tokensPer: 10}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	res, err := ce.Embed(ctx, "same text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalTokens != 10 {
		t.Errorf("miss should report provider tokens, got %d", res.TotalTokens)
	}
	if ms.sets != 1 {
		t.Fatalf("expected 1 cache put, got %d", ms.sets)
	}

	// Second call with the same text is served from the cache.
	res, err = ce.Embed(ctx, "same text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalTokens != 0 {
		t.Errorf("hit should report zero tokens, got %d", res.TotalTokens)
	}
	if len(res.Embedding) != 3 || res.Embedding[0] != 0.1 {
		t.Errorf("unexpected cached vector: %v", res.Embedding)
	}
	if inner.embedCalls != 1 {
		t.Errorf("inner embedder called %d times, want 1", inner.embedCalls)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errProviderDown}
	ce, _ := newTestCachedEmbedder(t, inner)

	_, err := ce.Embed(context.Background(), "text")
	if !errors.Is(err, errProviderDown) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestEmbed_UnreadableStoreFallsThrough(t *testing.T) {
	inner := &mockEmbedder{vec: []float32{0.5}, tokensPer: 2}
	ce, ms := newTestCachedEmbedder(t, inner)
	ms.getErr = errors.New("connection reset")

	res, err := ce.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("store read failure must not break embedding: %v", err)
	}
	if res.Embedding[0] != 0.5 {
		t.Errorf("expected inner vector, got %v", res.Embedding)
	}
}

func TestBatchEmbed_MixedHitsMisses(t *testing.T) {
	inner := &mockEmbedder{vec: []float32{0.5}, tokensPer: 3}
	ce, ms := newTestCachedEmbedder(t, inner)
	ms.seed("hit", []float32{0.9})

	res, err := ce.BatchEmbed(context.Background(), []string{"miss1", "hit", "miss2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	if res.Embeddings[1][0] != 0.9 {
		t.Errorf("cached text must keep its position, got %v", res.Embeddings[1])
	}
	if res.Embeddings[0][0] != 0.5 || res.Embeddings[2][0] != 0.5 {
		t.Errorf("misses should carry the inner vector: %v, %v", res.Embeddings[0], res.Embeddings[2])
	}
	if got, want := res.TotalTokens, 6; got != want {
		t.Errorf("only misses consume tokens: got %d, want %d", got, want)
	}
	if inner.batchCalls != 1 {
		t.Errorf("expected 1 inner batch call, got %d", inner.batchCalls)
	}
	if len(inner.lastBatchIn) != 2 {
		t.Errorf("expected 2 uncached texts sent to provider, got %v", inner.lastBatchIn)
	}
}

func TestBatchEmbed_AllHitsSkipProvider(t *testing.T) {
	inner := &mockEmbedder{vec: []float32{0.1}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ms.seed("a", []float32{0.7})
	ms.seed("b", []float32{0.8})

	res, err := ce.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalTokens != 0 {
		t.Errorf("all-hit batch should cost zero tokens, got %d", res.TotalTokens)
	}
	if inner.batchCalls != 0 {
		t.Errorf("provider must not be called on all hits, got %d calls", inner.batchCalls)
	}
}

func TestBatchEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errProviderDown}
	ce, _ := newTestCachedEmbedder(t, inner)

	_, err := ce.BatchEmbed(context.Background(), []string{"a"})
	if !errors.Is(err, errProviderDown) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestBatchEmbed_Empty(t *testing.T) {
	inner := &mockEmbedder{}
	ce, _ := newTestCachedEmbedder(t, inner)

	res, err := ce.BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 0 {
		t.Errorf("expected no embeddings, got %d", len(res.Embeddings))
	}
	if inner.batchCalls != 0 {
		t.Errorf("provider must not be called for empty input")
	}
}

func TestVectorCacheBytes_RoundTrip(t *testing.T) {
	in := []float32{0.25, -1.5, 3.0}
	out, err := bytesToVector(vectorToCacheBytes(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("round trip mismatch at %d: %v vs %v", i, out[i], in[i])
		}
	}
}

func TestBytesToVector_Malformed(t *testing.T) {
	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for data not divisible by 4")
	}
}
