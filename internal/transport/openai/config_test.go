package openai

import (
	"net/http"
	"testing"
	"time"
)

func httpClientOf(t *testing.T, doer any) *http.Client {
	t.Helper()
	hc, ok := doer.(*http.Client)
	if !ok {
		t.Fatalf("expected *http.Client, got %T", doer)
	}
	return hc
}

func TestNewClientConfig_TimeoutBoundsHTTPClient(t *testing.T) {
	cfg := newClientConfig("sk-test", "", 30*time.Second)

	if got := httpClientOf(t, cfg.HTTPClient).Timeout; got != 30*time.Second {
		t.Errorf("timeout: got %v, want 30s", got)
	}
}

func TestNewClientConfig_NoTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -1} {
		cfg := newClientConfig("sk-test", "", timeout)
		if got := httpClientOf(t, cfg.HTTPClient).Timeout; got != 0 {
			t.Errorf("timeout %v: expected unbounded client, got %v", timeout, got)
		}
	}
}

func TestNewClientConfig_BaseURL(t *testing.T) {
	cfg := newClientConfig("sk-test", "https://llm.example.com/v1", 0)
	if cfg.BaseURL != "https://llm.example.com/v1" {
		t.Errorf("base url not applied: %q", cfg.BaseURL)
	}

	def := newClientConfig("sk-test", "", 0)
	if def.BaseURL == "" {
		t.Error("empty base url must keep the provider default")
	}
}
