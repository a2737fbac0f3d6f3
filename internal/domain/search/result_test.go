package search

import (
	"strings"
	"testing"
)

func TestSnippet_ShortTextUnchanged(t *testing.T) {
	if got := Snippet("short"); got != "short" {
		t.Errorf("Snippet = %q, want unchanged", got)
	}
}

func TestSnippet_ExactLimitUnchanged(t *testing.T) {
	text := strings.Repeat("a", SnippetLimit)
	if got := Snippet(text); got != text {
		t.Error("text at the limit should not be truncated")
	}
}

func TestSnippet_LongTextTruncated(t *testing.T) {
	text := strings.Repeat("a", SnippetLimit+50)
	got := Snippet(text)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated snippet should end with ellipsis: %q", got[len(got)-10:])
	}
	if n := len([]rune(got)); n != SnippetLimit+3 {
		t.Errorf("snippet length = %d runes, want %d", n, SnippetLimit+3)
	}
}

func TestSnippet_UnicodeRuneBoundary(t *testing.T) {
	text := strings.Repeat("ç", SnippetLimit+10)
	got := Snippet(text)
	if !strings.HasPrefix(got, "ç") || !strings.HasSuffix(got, "...") {
		t.Errorf("unexpected snippet: %q", got)
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n != SnippetLimit {
		t.Errorf("kept %d runes, want %d", n, SnippetLimit)
	}
}
