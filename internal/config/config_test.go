package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small", Dimensions: 1536},
		LLM:       LLMConfig{Model: "gpt-4o-mini"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"no database addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs"},
		{"missing embedding model", func(c *Config) { c.Embedding.Model = "" }, "embedding.model"},
		{"zero dimensions", func(c *Config) { c.Embedding.Dimensions = 0 }, "embedding.dimensions"},
		{"missing llm model", func(c *Config) { c.LLM.Model = "" }, "llm.model"},
		{"overlap >= chunk size", func(c *Config) {
			c.Index.ChunkSize = 100
			c.Index.ChunkOverlap = 100
		}, "chunk_overlap"},
		{"default topK above max", func(c *Config) {
			c.Retrieval.DefaultTopK = 50
			c.Retrieval.MaxTopK = 20
		}, "default_top_k"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Index.ChunkSize != 500 || cfg.Index.ChunkOverlap != 50 {
		t.Errorf("chunking defaults: size=%d overlap=%d", cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	}
	if cfg.Retrieval.DefaultTopK != 5 || cfg.Retrieval.MaxTopK != 20 {
		t.Errorf("retrieval defaults: %d/%d", cfg.Retrieval.DefaultTopK, cfg.Retrieval.MaxTopK)
	}
	if cfg.Index.HNSWM != 16 || cfg.Index.HNSWEFConstruct != 200 {
		t.Errorf("hnsw defaults: m=%d ef=%d", cfg.Index.HNSWM, cfg.Index.HNSWEFConstruct)
	}
	if cfg.LLM.MaxTokens != 500 {
		t.Errorf("llm.max_tokens default: %d", cfg.LLM.MaxTokens)
	}
	if cfg.Embedding.CacheEnabled == nil || !*cfg.Embedding.CacheEnabled {
		t.Error("embedding cache should default to enabled")
	}
	if cfg.Dataset.Path != "data/emails.json" {
		t.Errorf("dataset path default: %q", cfg.Dataset.Path)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("write timeout default: %d", cfg.HTTP.WriteTimeoutSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := validConfig()
	cfg.Index.ChunkSize = 300
	cfg.Retrieval.MaxTopK = 10
	disabled := false
	cfg.Embedding.CacheEnabled = &disabled
	cfg.ApplyDefaults()

	if cfg.Index.ChunkSize != 300 {
		t.Errorf("chunk size overridden: %d", cfg.Index.ChunkSize)
	}
	if cfg.Retrieval.MaxTopK != 10 {
		t.Errorf("max topK overridden: %d", cfg.Retrieval.MaxTopK)
	}
	if *cfg.Embedding.CacheEnabled {
		t.Error("explicit cache_enabled=false must survive defaults")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MAILRAG_TEST_ADDR", "redis:6379")

	in := []byte("addr: ${MAILRAG_TEST_ADDR}\nport: ${MAILRAG_TEST_PORT:-8080}\nkey: ${MAILRAG_TEST_UNSET:-}\n")
	out := string(expandEnvVars(in))

	if !strings.Contains(out, "addr: redis:6379") {
		t.Errorf("set variable not substituted: %s", out)
	}
	if !strings.Contains(out, "port: 8080") {
		t.Errorf("default not applied: %s", out)
	}
	if !strings.Contains(out, "key: \n") {
		t.Errorf("empty default should yield empty string: %s", out)
	}
}

func TestExpandEnvVars_SetOverridesDefault(t *testing.T) {
	t.Setenv("MAILRAG_TEST_PORT", "9090")

	out := string(expandEnvVars([]byte("port: ${MAILRAG_TEST_PORT:-8080}")))
	if out != "port: 9090" {
		t.Errorf("expected env value to win, got %q", out)
	}
}
