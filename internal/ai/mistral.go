package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMistralBaseURL is the public Mistral API endpoint
const DefaultMistralBaseURL = "https://api.mistral.ai"

// MistralCompleter calls Mistral's fill-in-the-middle endpoint, which
// continues a prompt instead of answering a chat turn.
type MistralCompleter struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type fimRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type fimResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

// NewMistralCompleter reads MISTRAL_API_KEY when cfg.APIKey is empty
func NewMistralCompleter(cfg ProviderConfig) (*MistralCompleter, error) {
	apiKey, err := resolveAPIKey(cfg.APIKey, "MISTRAL_API_KEY")
	if err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultMistralBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &MistralCompleter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
	}, nil
}

func (m *MistralCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body, err := json.Marshal(fimRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/fim/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := m.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("mistral request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mistral API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed fimResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	fmt.Printf("AI completion for %s: input=%d tokens, output=%d tokens\n",
		req.Name, parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)

	return parsed.Choices[0].Message.Content, nil
}
