package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Provider names accepted by NewCompleter
const (
	ProviderMistral   = "mistral"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderStub      = "stub"
)

// Default models per provider. Mistral's code model is the default
// because it serves prompt continuation (FIM) directly.
const (
	ModelCodestral = "codestral-2405"
	ModelHaiku     = "claude-3-5-haiku-20241022"
	ModelGemini    = "gemini-2.0-flash"
)

// ErrMissingAPIKey is returned when a provider's credential is not configured
var ErrMissingAPIKey = errors.New("API key not set")

// ErrEmptyCompletion is returned when the service answers without any text
var ErrEmptyCompletion = errors.New("empty completion")

// CompletionRequest is a single prompt-continuation request
type CompletionRequest struct {
	Name        string // function being documented
	Model       string
	Prompt      string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Completer issues one completion request and returns the first choice's text
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ProviderConfig selects and configures a Completer
type ProviderConfig struct {
	Provider   string
	APIKey     string // if empty, read from the provider's environment variable
	BaseURL    string // optional endpoint override
	HTTPClient *http.Client
}

// NewCompleter builds the Completer for cfg.Provider.
// Missing credentials fail here, before any request is attempted.
func NewCompleter(ctx context.Context, cfg ProviderConfig) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderMistral:
		return NewMistralCompleter(cfg)
	case ProviderAnthropic:
		return NewAnthropicCompleter(cfg)
	case ProviderGemini:
		return NewGeminiCompleter(ctx, cfg)
	case ProviderStub:
		return StubCompleter{}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case ProviderAnthropic:
		return ModelHaiku
	case ProviderGemini:
		return ModelGemini
	case ProviderStub:
		return ProviderStub
	default:
		return ModelCodestral
	}
}

// resolveAPIKey returns key, or the first non-empty environment variable
func resolveAPIKey(key string, envVars ...string) (string, error) {
	if key != "" {
		return key, nil
	}
	for _, name := range envVars {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMissingAPIKey, strings.Join(envVars, " or "))
}
