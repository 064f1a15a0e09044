package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client against any OpenAI-compatible chat
// completions API. OpenAI itself, Mistral, and Perplexity all speak the same
// wire format, so one parameterized client replaces three near-identical
// HTTP adapters — only the base URL, model, and system prompt differ.
type OpenAIClient struct {
	client   *openai.Client
	provider string
	model    string
	system   string
}

// NewOpenAIClient creates a client for the given provider. baseURL is empty
// for OpenAI proper; for compatible providers it points at their endpoint
// (e.g. https://api.mistral.ai/v1, https://api.perplexity.ai).
func NewOpenAIClient(provider, apiKey, baseURL, model, systemPrompt string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:   openai.NewClientWithConfig(cfg),
		provider: provider,
		model:    model,
		system:   systemPrompt,
	}
}

func (o *OpenAIClient) ProviderName() string { return o.provider }
func (o *OpenAIClient) ModelName() string    { return o.model }

func (o *OpenAIClient) Generate(ctx context.Context, prompt string, maxTokens int) (*Response, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	if o.system != "" {
		messages = append([]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.system},
		}, messages...)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: maxTokens,
		Messages:  messages,
	})
	if err != nil {
		var apierr *openai.APIError
		if errors.As(err, &apierr) {
			return nil, &ProviderError{
				Provider:   o.provider,
				StatusCode: apierr.HTTPStatusCode,
				Body:       apierr.Message,
			}
		}
		return nil, fmt.Errorf("%s API call: %w", o.provider, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", o.provider)
	}

	return &Response{Text: resp.Choices[0].Message.Content}, nil
}
