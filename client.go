// Package mailrag is an embedded retrieval pipeline for email archives:
// normalize raw emails, chunk and embed them into a Redis vector index, then
// search or ask grounded questions over the result.
package mailrag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inboxlab/mailrag/internal/db"
	dbRedis "github.com/inboxlab/mailrag/internal/db/redis"
	"github.com/inboxlab/mailrag/internal/domain"
	chunkrepo "github.com/inboxlab/mailrag/internal/repository/chunk"
	"github.com/inboxlab/mailrag/internal/repository/embcache"
	searchrepo "github.com/inboxlab/mailrag/internal/repository/search"
	usagerepo "github.com/inboxlab/mailrag/internal/repository/usage"
	openaiTransport "github.com/inboxlab/mailrag/internal/transport/openai"
	answeruc "github.com/inboxlab/mailrag/internal/usecase/answer"
	classifyuc "github.com/inboxlab/mailrag/internal/usecase/classify"
	collectionuc "github.com/inboxlab/mailrag/internal/usecase/collection"
	indexuc "github.com/inboxlab/mailrag/internal/usecase/index"
	normalizeuc "github.com/inboxlab/mailrag/internal/usecase/normalize"
	searchuc "github.com/inboxlab/mailrag/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the mailrag SDK entry point.
type Client struct {
	store         db.Store
	normalizeSvc  *normalizeuc.Service
	indexSvc      *indexuc.Service
	searchSvc     *searchuc.Service
	answerSvc     *answeruc.Service
	classifySvc   *classifyuc.Service
	collectionSvc *collectionuc.Service
}

// New creates a mailrag Client and connects to the vector store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		embeddingModel: "text-embedding-3-small",
		dimensions:     1536,
		chatModel:      "gpt-4o-mini",
		maxTokens:      500,
		embedTimeout:   30 * time.Second,
		chatTimeout:    60 * time.Second,
		chunkSize:      500,
		chunkOverlap:   50,
		defaultTopK:    5,
		maxTopK:        20,
		logger:         zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("mailrag: redis address required (use WithRedis)")
	}
	if cfg.chunkOverlap >= cfg.chunkSize {
		return nil, fmt.Errorf("mailrag: chunk overlap %d must be smaller than chunk size %d",
			cfg.chunkOverlap, cfg.chunkSize)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("mailrag: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("mailrag: vector store not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	docEmbedder := buildEmbedder(cfg, cfg.docInstruction, store)
	queryEmbedder := buildEmbedder(cfg, cfg.queryInstruction, store)

	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:      cfg.apiKey,
		BaseURL:     cfg.baseURL,
		Model:       cfg.chatModel,
		Temperature: cfg.temperature,
		MaxTokens:   cfg.maxTokens,
		Timeout:     cfg.chatTimeout,
		Provider:    "openai",
		Logger:      cfg.logger,
	})

	chunkRepo := chunkrepo.New(store)
	if cfg.hnswM > 0 || cfg.hnswEF > 0 {
		chunkRepo = chunkRepo.WithHNSW(chunkrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEF,
		})
	}
	searchRepo := searchrepo.New(store)
	usageStore := usagerepo.New(store)

	searchSvc := searchuc.New(searchRepo, chunkRepo, queryEmbedder, usageStore).
		WithTopK(cfg.defaultTopK, cfg.maxTopK)

	return &Client{
		store:        store,
		normalizeSvc: normalizeuc.New(),
		indexSvc: indexuc.New(chunkRepo, docEmbedder, usageStore, indexuc.Config{
			ChunkSize:    cfg.chunkSize,
			ChunkOverlap: cfg.chunkOverlap,
			Model:        cfg.embeddingModel,
			Dimensions:   cfg.dimensions,
		}),
		searchSvc:   searchSvc,
		answerSvc:   answeruc.New(searchSvc, completer, usageStore),
		classifySvc: classifyuc.New(),
		collectionSvc: collectionuc.New(
			chunkRepo, usageStore, cfg.embeddingModel, cfg.dimensions,
		),
	}
}

func buildEmbedder(cfg *clientConfig, instruction string, store db.Store) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.apiKey,
		BaseURL:    cfg.baseURL,
		Model:      cfg.embeddingModel,
		Dimensions: cfg.dimensions,
		Timeout:    cfg.embedTimeout,
		Provider:   "openai",
		Logger:     cfg.logger,
	})

	var embedder domain.Embedder = base
	if !cfg.cacheDisabled {
		embedder = embcache.New(base, store, nil, cfg.logger)
	}
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks vector store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Normalize converts raw emails into indexable messages, preserving order.
func (c *Client) Normalize(emails []Email) ([]Message, error) {
	internal, err := toInternalEmails(emails)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	msgs, err := c.normalizeSvc.Normalize(internal)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return fromInternalMessages(msgs), nil
}

// Index chunks, embeds, and stores messages. Returns the number of chunks
// written. Re-running over unchanged messages is idempotent.
func (c *Client) Index(ctx context.Context, msgs []Message) (int, error) {
	internal, err := toInternalMessages(msgs)
	if err != nil {
		return 0, fmt.Errorf("index: %w", err)
	}
	count, err := c.indexSvc.Index(ctx, internal)
	if err != nil {
		return 0, fmt.Errorf("index: %w", err)
	}
	return count, nil
}

// Search returns up to topK chunks most similar to query, ordered by
// descending score. topK <= 0 uses the configured default. An empty
// collection yields an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	results, err := c.searchSvc.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromInternalResults(results), nil
}

// Ask answers a question grounded in retrieved emails. When nothing relevant
// is indexed the answer text is NotFoundAnswer with no citations and no
// model call is made.
func (c *Client) Ask(ctx context.Context, question string, topK int) (Answer, error) {
	ans, err := c.answerSvc.Ask(ctx, question, topK)
	if err != nil {
		return Answer{}, fmt.Errorf("ask: %w", err)
	}
	return fromInternalAnswer(ans), nil
}

// Classify runs the rule-based classifier over emails, in input order.
func (c *Client) Classify(emails []Email) ([]Classification, error) {
	internal, err := toInternalEmails(emails)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return c.classifySvc.Classify(internal), nil
}

// Stats reports the chunk count, embedding identity, and today's usage.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	st, err := c.collectionSvc.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return fromInternalStats(st), nil
}

// Reset drops all indexed chunks and recreates an empty index.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.collectionSvc.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}
