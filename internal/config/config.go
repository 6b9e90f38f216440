// Package config loads go-doc-llm settings from a YAML file, a .env file
// and GODOCLLM_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/romiras/go-doc-llm/internal/ai"
	"github.com/romiras/go-doc-llm/internal/cache"
)

// DefaultConfigPath is read when no --config flag is given; it may be absent
const DefaultConfigPath = ".go-doc-llm.yaml"

// DefaultDotEnvPath holds provider credentials
const DefaultDotEnvPath = ".env"

// EnvPrefix prefixes every environment override
const EnvPrefix = "GODOCLLM_"

// Config holds go-doc-llm configuration
type Config struct {
	// Provider selects the completion service: mistral, anthropic, gemini or stub
	Provider string `yaml:"provider" validate:"oneof=mistral anthropic gemini stub"`

	// Model overrides the provider's default model
	Model string `yaml:"model"`

	// BaseURL overrides the provider endpoint
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`

	// MaxTokens caps completion length (0 = provider default)
	MaxTokens int `yaml:"max_tokens" validate:"gte=0"`

	// RequestInterval is the minimum spacing between completion requests
	// Default: 500ms
	RequestInterval time.Duration `yaml:"request_interval" validate:"gte=0"`

	// MaxInFlight bounds concurrent completion requests
	MaxInFlight int `yaml:"max_in_flight" validate:"gte=1"`

	// Style is the doc comment delimiter style: line or block
	Style string `yaml:"style" validate:"oneof=line block"`

	// ExportedOnly skips unexported functions and methods
	ExportedOnly bool `yaml:"exported_only"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig selects and configures the response cache
type CacheConfig struct {
	Backend string        `yaml:"backend" validate:"oneof=redis sqlite postgres memory"`
	URL     string        `yaml:"url" validate:"required_if=Backend redis"`
	Path    string        `yaml:"path" validate:"required_if=Backend sqlite"`
	DSN     string        `yaml:"dsn" validate:"required_if=Backend postgres"`
	Prefix  string        `yaml:"prefix" validate:"required"`
	TTL     time.Duration `yaml:"ttl" validate:"gt=0"`
	KeyMode string        `yaml:"key_mode" validate:"oneof=name content"`
	Size    int           `yaml:"size" validate:"gte=1"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:        ai.ProviderMistral,
		RequestInterval: ai.DefaultRequestInterval,
		MaxInFlight:     1,
		Style:           "line",
		Cache: CacheConfig{
			Backend: cache.BackendRedis,
			URL:     cache.DefaultRedisURL,
			Path:    cache.DefaultSQLitePath,
			Prefix:  cache.DefaultPrefix,
			TTL:     cache.DefaultTTL,
			KeyMode: string(cache.KeyByName),
			Size:    cache.DefaultMemorySize,
		},
	}
}

// Load builds the configuration for a run: defaults, then the YAML file,
// then .env, then GODOCLLM_* variables. An empty path reads
// DefaultConfigPath if it exists.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := LoadDotEnv(DefaultDotEnvPath); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto the defaults.
// A missing file is an error only when path was given explicitly.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads credentials from a .env file if one exists.
// Variables already set in the environment are not overridden.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from GODOCLLM_* environment variables.
// Values that do not parse are ignored.
func (c *Config) ApplyEnv() {
	setString(&c.Provider, "PROVIDER")
	setString(&c.Model, "MODEL")
	setString(&c.BaseURL, "BASE_URL")
	setString(&c.Style, "STYLE")

	if val := env("MAX_TOKENS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			c.MaxTokens = n
		}
	}

	if val := env("REQUEST_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d >= 0 {
			c.RequestInterval = d
		}
	}

	if val := env("MAX_IN_FLIGHT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.MaxInFlight = n
		}
	}

	if val := env("EXPORTED_ONLY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.ExportedOnly = b
		}
	}

	setString(&c.Cache.Backend, "CACHE_BACKEND")
	setString(&c.Cache.URL, "CACHE_URL")
	setString(&c.Cache.Path, "CACHE_PATH")
	setString(&c.Cache.DSN, "CACHE_DSN")
	setString(&c.Cache.Prefix, "CACHE_PREFIX")
	setString(&c.Cache.KeyMode, "CACHE_KEY_MODE")

	if val := env("CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			c.Cache.TTL = d
		}
	}

	if val := env("CACHE_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.Cache.Size = n
		}
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report YAML keys so errors match what the user wrote
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(c.Provider)
	c.Style = strings.ToLower(c.Style)
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	c.Cache.KeyMode = strings.ToLower(c.Cache.KeyMode)

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s (got %v)", field, fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// APIKey returns the GODOCLLM_API_KEY override. When empty, the provider
// falls back to its own variable (MISTRAL_API_KEY, ANTHROPIC_API_KEY, ...).
func (c *Config) APIKey() string {
	return env("API_KEY")
}

// ResolvedModel returns Model, or the provider's default
func (c *Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	return ai.DefaultModel(c.Provider)
}

// ProviderConfig returns the settings for ai.NewCompleter
func (c *Config) ProviderConfig() ai.ProviderConfig {
	return ai.ProviderConfig{
		Provider: c.Provider,
		APIKey:   c.APIKey(),
		BaseURL:  c.BaseURL,
	}
}

// StoreConfig returns the settings for cache.Open
func (c *Config) StoreConfig() cache.Config {
	return cache.Config{
		Backend: c.Cache.Backend,
		URL:     c.Cache.URL,
		Path:    c.Cache.Path,
		DSN:     c.Cache.DSN,
		Size:    c.Cache.Size,
	}
}

func env(key string) string {
	return os.Getenv(EnvPrefix + key)
}

func setString(dst *string, key string) {
	if val := env(key); val != "" {
		*dst = val
	}
}
