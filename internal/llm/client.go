// Package llm wraps the text-generation backend behind a single
// prompt-in, text-out call. Callers own the parsing of whatever the
// backend returns; no output shape is guaranteed here.
package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Client is the structured extraction client used by the analyzer, the
// plan generator and the product generation tool.
type Client struct {
	model llms.Model
}

// New builds a client for the named provider. OpenAI-compatible
// providers (openai, openrouter) share one code path; BaseURL selects
// the endpoint.
func New(provider, apiKey, modelName, baseURL string) (*Client, error) {
	switch provider {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(apiKey),
			openai.WithModel(modelName),
		}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, err
		}
		return &Client{model: model}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// NewFromModel wraps an already constructed model.
func NewFromModel(model llms.Model) *Client {
	return &Client{model: model}
}

// Invoke sends one prompt and returns the raw completion text.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.model, prompt)
}
