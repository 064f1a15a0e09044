// Package llm provides a provider-agnostic interface for querying large
// language models with a prompt and a token budget. The investor search
// fans the same structured prompts out to five independent providers
// (Anthropic, OpenAI, Gemini, Perplexity, Mistral) and cross-checks their
// answers, so the abstraction here is deliberately minimal: send text, get
// text back.
//
// Go interface design tip: keep interfaces small. One method of substance —
// that's ideal. Go proverb: "The bigger the interface, the weaker the
// abstraction."
package llm

import "context"

// Response is the raw outcome of one generation call.
type Response struct {
	Text      string   // Full response text (may wrap JSON in prose or fences)
	Citations []string // Source URLs, when the provider reports them
}

// Client is the interface every provider implements. Generate blocks until
// the provider answers or ctx is cancelled; there are no retries at this
// layer — retry policy, if any, belongs to the caller.
type Client interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (*Response, error)
	ProviderName() string
	ModelName() string
}
