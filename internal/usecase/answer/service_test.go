package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/inboxlab/mailrag/internal/domain"
	domanswer "github.com/inboxlab/mailrag/internal/domain/answer"
	domsearch "github.com/inboxlab/mailrag/internal/domain/search"
)

// --- Mocks ---

type mockRetriever struct {
	results []domsearch.Result
	err     error
}

func (m *mockRetriever) Search(_ context.Context, _ string, _ int) ([]domsearch.Result, error) {
	return m.results, m.err
}

type mockCompleter struct {
	text       string
	err        error
	calls      int
	lastPrompt string
	lastSystem string
}

func (m *mockCompleter) Complete(_ context.Context, system, prompt string) (domain.CompletionResult, error) {
	m.calls++
	m.lastSystem = system
	m.lastPrompt = prompt
	if m.err != nil {
		return domain.CompletionResult{}, m.err
	}
	return domain.CompletionResult{Text: m.text, TotalTokens: 42}, nil
}

func result(chunkID, emailID, subject string) domsearch.Result {
	return domsearch.New(chunkID, emailID, subject, "2026-01-01", 0.9, "snippet of "+emailID)
}

// --- Tests ---

func TestAsk_AnswersWithCitations(t *testing.T) {
	retriever := &mockRetriever{results: []domsearch.Result{
		result("e1:0", "e1", "Invoice #INV-2026-0045"),
		result("e2:0", "e2", "Sprint planning"),
	}}
	completer := &mockCompleter{text: "The invoice is due January 31, 2026."}
	svc := New(retriever, completer, nil)

	ans, err := svc.Ask(context.Background(), "when is the invoice due?", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Text() != completer.text {
		t.Errorf("answer text = %q", ans.Text())
	}

	citations := ans.Citations()
	if len(citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(citations))
	}
	// Citations follow retrieval order and trace to the source emails.
	if citations[0].ID() != "e1" || citations[1].ID() != "e2" {
		t.Errorf("citation order: got %q, %q", citations[0].ID(), citations[1].ID())
	}
	if citations[0].Subject() != "Invoice #INV-2026-0045" {
		t.Errorf("citation subject = %q", citations[0].Subject())
	}
}

func TestAsk_NoResultsSkipsLLM(t *testing.T) {
	completer := &mockCompleter{text: "should never be returned"}
	svc := New(&mockRetriever{}, completer, nil)

	ans, err := svc.Ask(context.Background(), "anything?", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("Complete called %d times, want 0", completer.calls)
	}
	if ans.Text() != domanswer.NotFoundText {
		t.Errorf("answer = %q, want the fixed not-found text", ans.Text())
	}
	if len(ans.Citations()) != 0 {
		t.Errorf("expected no citations, got %d", len(ans.Citations()))
	}
}

func TestAsk_PromptContainsContextAndQuestion(t *testing.T) {
	retriever := &mockRetriever{results: []domsearch.Result{
		result("e1:0", "e1", "First subject"),
		result("e2:0", "e2", "Second subject"),
	}}
	completer := &mockCompleter{text: "ok"}
	svc := New(retriever, completer, nil)

	if _, err := svc.Ask(context.Background(), "what happened?", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"[Email 1]", "[Email 2]", "First subject", "Second subject", "what happened?"} {
		if !strings.Contains(completer.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if completer.lastSystem == "" {
		t.Error("system prompt must be set")
	}
}

func TestAsk_RetrievalError(t *testing.T) {
	svc := New(&mockRetriever{err: domain.ErrInvalidQuery}, &mockCompleter{}, nil)

	_, err := svc.Ask(context.Background(), "", 5)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestAsk_GenerationFailureDistinctFromEmptyRetrieval(t *testing.T) {
	retriever := &mockRetriever{results: []domsearch.Result{result("e1:0", "e1", "s")}}
	completer := &mockCompleter{err: domain.ErrGenerationFailed}
	svc := New(retriever, completer, nil)

	_, err := svc.Ask(context.Background(), "q", 5)
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if completer.calls != 1 {
		t.Errorf("Complete called %d times, want 1", completer.calls)
	}
}
