package domain

import "context"

// Completer is the LLM text generation contract.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (CompletionResult, error)
}

// CompletionResult carries the generated text and token usage.
type CompletionResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
