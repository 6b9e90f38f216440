package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicCompleter sends the prompt as a single user turn to the Messages API
type AnthropicCompleter struct {
	client *anthropic.Client
}

// NewAnthropicCompleter reads ANTHROPIC_API_KEY when cfg.APIKey is empty.
// SDK-level retries are disabled; a failed call aborts the run.
func NewAnthropicCompleter(cfg ProviderConfig) (*AnthropicCompleter, error) {
	apiKey, err := resolveAPIKey(cfg.APIKey, "ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicCompleter{client: &client}, nil
}

func (a *AnthropicCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	// Newer Claude models reject temperature and top_p together;
	// temperature 0 alone gives deterministic sampling.
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", ErrEmptyCompletion
	}

	fmt.Printf("AI completion for %s: input=%d tokens, output=%d tokens\n",
		req.Name, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	return text, nil
}
