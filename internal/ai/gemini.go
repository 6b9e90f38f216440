package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiCompleter wraps the official genai client
type GeminiCompleter struct {
	client *genai.Client
}

// NewGeminiCompleter reads GEMINI_API_KEY, then GOOGLE_API_KEY, when cfg.APIKey is empty
func NewGeminiCompleter(ctx context.Context, cfg ProviderConfig) (*GeminiCompleter, error) {
	apiKey, err := resolveAPIKey(cfg.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	if err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiCompleter{client: client}, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
		TopP:        genai.Ptr(float32(req.TopP)),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}

	if resp.UsageMetadata != nil {
		fmt.Printf("AI completion for %s: input=%d tokens, output=%d tokens\n",
			req.Name, resp.UsageMetadata.PromptTokenCount, resp.UsageMetadata.CandidatesTokenCount)
	}
	return text, nil
}
