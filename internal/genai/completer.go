// Package genai wraps the chat-completion provider behind a small interface
// the assistant can depend on, with provider errors normalised into the
// application error taxonomy.
package genai

import "context"

// FinishReason mirrors the provider's reason for ending a completion.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
)

// Completion is the provider-agnostic result of one completion request.
type Completion struct {
	Content      string
	FinishReason FinishReason
}

// Completer produces a single completion for a fully assembled prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxOutputTokens int64) (*Completion, error)
}
