package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements Client using Google's Gemini API via the genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client. The genai SDK requires a
// context at construction time because it may probe credentials.
func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiClient) ProviderName() string { return "gemini" }
func (g *GeminiClient) ModelName() string    { return g.model }

func (g *GeminiClient) Generate(ctx context.Context, prompt string, maxTokens int) (*Response, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: int32(maxTokens),
			Temperature:     genai.Ptr[float32](0.7),
		},
	)
	if err != nil {
		var apierr genai.APIError
		if errors.As(err, &apierr) {
			return nil, &ProviderError{
				Provider:   g.ProviderName(),
				StatusCode: apierr.Code,
				Body:       apierr.Message,
			}
		}
		return nil, fmt.Errorf("gemini API call: %w", err)
	}

	return &Response{Text: result.Text()}, nil
}
