package mailrag

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	apiKey  string
	baseURL string

	embeddingModel string
	dimensions     int
	chatModel      string
	temperature    float32
	maxTokens      int
	embedTimeout   time.Duration
	chatTimeout    time.Duration

	docInstruction   string
	queryInstruction string
	cacheDisabled    bool

	chunkSize    int
	chunkOverlap int
	hnswM        int
	hnswEF       int

	defaultTopK int
	maxTopK     int

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithOpenAI sets the API key and optional base URL used for both embeddings
// and chat completions. baseURL may be empty for the default endpoint; set it
// to point at any OpenAI-compatible provider.
func WithOpenAI(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
		c.baseURL = baseURL
	})
}

// WithEmbeddingModel sets the embedding model identity.
// Defaults: text-embedding-3-small, 1536 dimensions. The identity is fixed
// for the life of an index; changing it against existing data fails with
// ErrModelMismatch.
func WithEmbeddingModel(model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingModel = model
		c.dimensions = dimensions
	})
}

// WithChatModel sets the answer generation model. Default: gpt-4o-mini.
func WithChatModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.chatModel = model
	})
}

// WithGeneration tunes answer generation. Defaults: temperature 0, 500 tokens.
func WithGeneration(temperature float32, maxTokens int) Option {
	return optionFunc(func(c *clientConfig) {
		c.temperature = temperature
		c.maxTokens = maxTokens
	})
}

// WithTimeouts bounds the embedding and chat completion network calls.
// Defaults: 30s for embeddings, 60s for completions. Zero keeps the default;
// pass a negative value to disable the bound.
func WithTimeouts(embedding, chat time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		if embedding != 0 {
			c.embedTimeout = embedding
		}
		if chat != 0 {
			c.chatTimeout = chat
		}
	})
}

// WithInstructions sets the document and query instruction prefixes for
// asymmetric retrieval models. Both default to empty.
func WithInstructions(document, query string) Option {
	return optionFunc(func(c *clientConfig) {
		c.docInstruction = document
		c.queryInstruction = query
	})
}

// WithoutEmbeddingCache disables the Redis-backed embedding cache.
func WithoutEmbeddingCache() Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDisabled = true
	})
}

// WithChunking sets the chunk window size and overlap in runes.
// Defaults: 500/50. Overlap must be smaller than size.
func WithChunking(size, overlap int) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunkSize = size
		c.chunkOverlap = overlap
	})
}

// WithHNSW configures HNSW index parameters. Defaults: M=16, EFConstruct=200.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEF = efConstruct
	})
}

// WithTopK sets the default and maximum retrieval depth. Defaults: 5/20.
func WithTopK(defaultTopK, maxTopK int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopK = defaultTopK
		c.maxTopK = maxTopK
	})
}

// WithLogger enables structured logging for client operations.
// Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
