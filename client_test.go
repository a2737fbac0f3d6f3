package mailrag

import (
	"strings"
	"testing"
	"time"
)

func applyOptions(opts ...Option) *clientConfig {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	return cfg
}

func TestOptions_Apply(t *testing.T) {
	cfg := applyOptions(
		WithRedis("localhost:6379", "pw"),
		WithOpenAI("sk-test", "https://llm.example.com/v1"),
		WithEmbeddingModel("text-embedding-3-large", 3072),
		WithChatModel("gpt-4o"),
		WithGeneration(0.3, 800),
		WithInstructions("doc: ", "query: "),
		WithoutEmbeddingCache(),
		WithTimeouts(10*time.Second, 45*time.Second),
		WithChunking(300, 30),
		WithHNSW(32, 400),
		WithTopK(3, 10),
	)

	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" || cfg.password != "pw" {
		t.Errorf("redis option: %v / %q", cfg.addrs, cfg.password)
	}
	if cfg.apiKey != "sk-test" || cfg.baseURL != "https://llm.example.com/v1" {
		t.Errorf("openai option: %q / %q", cfg.apiKey, cfg.baseURL)
	}
	if cfg.embeddingModel != "text-embedding-3-large" || cfg.dimensions != 3072 {
		t.Errorf("embedding option: %q / %d", cfg.embeddingModel, cfg.dimensions)
	}
	if cfg.chatModel != "gpt-4o" || cfg.temperature != 0.3 || cfg.maxTokens != 800 {
		t.Errorf("chat options: %q %v %d", cfg.chatModel, cfg.temperature, cfg.maxTokens)
	}
	if cfg.docInstruction != "doc: " || cfg.queryInstruction != "query: " {
		t.Errorf("instructions: %q / %q", cfg.docInstruction, cfg.queryInstruction)
	}
	if !cfg.cacheDisabled {
		t.Error("cache not disabled")
	}
	if cfg.embedTimeout != 10*time.Second || cfg.chatTimeout != 45*time.Second {
		t.Errorf("timeouts: %v/%v", cfg.embedTimeout, cfg.chatTimeout)
	}
	if cfg.chunkSize != 300 || cfg.chunkOverlap != 30 {
		t.Errorf("chunking: %d/%d", cfg.chunkSize, cfg.chunkOverlap)
	}
	if cfg.hnswM != 32 || cfg.hnswEF != 400 {
		t.Errorf("hnsw: %d/%d", cfg.hnswM, cfg.hnswEF)
	}
	if cfg.defaultTopK != 3 || cfg.maxTopK != 10 {
		t.Errorf("topK: %d/%d", cfg.defaultTopK, cfg.maxTopK)
	}
}

func TestWithTimeouts_ZeroKeepsCurrent(t *testing.T) {
	cfg := &clientConfig{embedTimeout: 30 * time.Second, chatTimeout: 60 * time.Second}
	WithTimeouts(0, 45*time.Second).apply(cfg)

	if cfg.embedTimeout != 30*time.Second {
		t.Errorf("zero embedding timeout must not override, got %v", cfg.embedTimeout)
	}
	if cfg.chatTimeout != 45*time.Second {
		t.Errorf("chat timeout not applied: %v", cfg.chatTimeout)
	}
}

func TestNew_RequiresRedisAddr(t *testing.T) {
	_, err := New()
	if err == nil || !strings.Contains(err.Error(), "redis address required") {
		t.Fatalf("expected address error, got %v", err)
	}
}

func TestNew_RejectsBadChunking(t *testing.T) {
	_, err := New(WithRedis("localhost:6379", ""), WithChunking(100, 100))
	if err == nil || !strings.Contains(err.Error(), "chunk overlap") {
		t.Fatalf("expected chunking error, got %v", err)
	}
}
