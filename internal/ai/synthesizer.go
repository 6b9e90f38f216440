package ai

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/romiras/go-doc-llm/internal/cache"
)

// Synthesizer turns a function's source into documentation text.
// Results are cached per function; only misses reach the completion service.
type Synthesizer struct {
	completer Completer
	store     cache.Store
	gate      RequestGate
	model     string
	maxTokens int
	keyPrefix string
	keyMode   cache.KeyMode
	ttl       time.Duration
	out       io.Writer
	stats     Stats
}

// Stats counts what the synthesizer did during a run
type Stats struct {
	CacheHits   int
	Completions int
}

// Config holds synthesizer configuration
type Config struct {
	Completer Completer     // required
	Store     cache.Store   // required
	Gate      RequestGate   // default: NewGate(DefaultRequestInterval, 1)
	Model     string        // default: codestral-2405
	MaxTokens int           // 0 lets the provider decide
	KeyPrefix string        // default: cache.DefaultPrefix
	KeyMode   cache.KeyMode // default: cache.KeyByName
	TTL       time.Duration // default: cache.DefaultTTL
	Out       io.Writer     // progress output, default os.Stdout
}

// NewSynthesizer creates a new synthesizer
func NewSynthesizer(cfg *Config) (*Synthesizer, error) {
	if cfg.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("cache store is required")
	}

	s := &Synthesizer{
		completer: cfg.Completer,
		store:     cfg.Store,
		gate:      cfg.Gate,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		keyPrefix: cfg.KeyPrefix,
		keyMode:   cfg.KeyMode,
		ttl:       cfg.TTL,
		out:       cfg.Out,
	}
	if s.gate == nil {
		s.gate = NewGate(DefaultRequestInterval, 1)
	}
	if s.model == "" {
		s.model = ModelCodestral
	}
	if s.keyPrefix == "" {
		s.keyPrefix = cache.DefaultPrefix
	}
	if s.keyMode == "" {
		s.keyMode = cache.KeyByName
	}
	if s.ttl <= 0 {
		s.ttl = cache.DefaultTTL
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	return s, nil
}

// Synthesize returns documentation text for the named function.
// A cached entry is returned as-is without waiting on the gate.
func (s *Synthesizer) Synthesize(ctx context.Context, name, code string) (string, error) {
	key := cache.Key(s.keyPrefix, name, code, s.keyMode)

	cached, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("cache lookup for %s failed: %w", name, err)
	}
	if ok {
		s.stats.CacheHits++
		return cached, nil
	}

	prompt := BuildPrompt(code)

	release, err := s.gate.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	startTime := time.Now()
	text, err := s.completer.Complete(ctx, CompletionRequest{
		Name:        name,
		Model:       s.model,
		Prompt:      prompt,
		Temperature: 0,
		TopP:        1,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("completion for %s failed: %w", name, err)
	}
	s.stats.Completions++

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("completion for %s: %w", name, ErrEmptyCompletion)
	}

	if err := s.store.Set(ctx, key, text, s.ttl); err != nil {
		return "", fmt.Errorf("cache store for %s failed: %w", name, err)
	}

	fmt.Fprintf(s.out, "Synthesized documentation for %s (%d chars, %v)\n",
		name, len(text), time.Since(startTime).Round(time.Millisecond))

	return text, nil
}

// Stats returns counters for the run so far
func (s *Synthesizer) Stats() Stats {
	return s.stats
}
