package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client using Claude's messages API.
// Claude handles the company-profiling call and two of the nine category
// searches, so its output quality matters most for the session-fatal path.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a Claude-backed client.
func NewAnthropicClient(apiKey string, model string) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicClient{
		client: &client,
		model:  model,
	}
}

func (a *AnthropicClient) ProviderName() string { return "anthropic" }
func (a *AnthropicClient) ModelName() string    { return a.model }

// Generate sends one user message and joins all returned text blocks.
// Claude splits long answers into multiple content blocks; the investor
// prompts only ever need the concatenated text.
func (a *AnthropicClient) Generate(ctx context.Context, prompt string, maxTokens int) (*Response, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apierr *anthropic.Error
		if errors.As(err, &apierr) {
			return nil, &ProviderError{
				Provider:   a.ProviderName(),
				StatusCode: apierr.StatusCode,
				Body:       apierr.Error(),
			}
		}
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	var parts []string
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, text.Text)
		}
	}

	return &Response{Text: strings.Join(parts, "\n")}, nil
}
