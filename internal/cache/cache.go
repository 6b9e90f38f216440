// Package cache stores synthesized documentation text keyed by function.
//
// Backends:
//   - redis: shared cache, the default (redis://localhost:6379/0)
//   - sqlite: single-file cache under .go-doc-llm/
//   - postgres: shared cache for teams that already run PostgreSQL
//   - memory: process-local LRU, useful for tests and one-off runs
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultPrefix namespaces every key written by this tool
	DefaultPrefix = "go-llm-doc"

	// DefaultTTL is how long a synthesized text is reused
	DefaultTTL = time.Hour

	// DefaultRedisURL matches a stock local Redis install
	DefaultRedisURL = "redis://localhost:6379/0"

	// DefaultSQLitePath is relative to the working directory
	DefaultSQLitePath = ".go-doc-llm/cache.db"

	// DefaultMemorySize bounds the in-process backend
	DefaultMemorySize = 1024
)

// Backend names accepted by Open
const (
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name
var ErrUnknownBackend = errors.New("unknown cache backend")

// Store is a key/value store with per-entry expiry.
// Get reports a miss with ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// KeyMode selects what identifies a cache entry
type KeyMode string

const (
	// KeyByName keys entries on the function name only. A changed body
	// keeps reusing the old text until the entry expires.
	KeyByName KeyMode = "name"

	// KeyByContent adds a digest of the function code to the key
	KeyByContent KeyMode = "content"
)

// Key builds the cache key for a function.
// The name-only form is "<prefix>:<name>".
func Key(prefix, name, code string, mode KeyMode) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	key := prefix + ":" + name
	if mode == KeyByContent {
		sum := sha256.Sum256([]byte(code))
		key += ":" + hex.EncodeToString(sum[:])[:16]
	}
	return key
}

// Config selects and configures a backend
type Config struct {
	Backend string
	URL     string // redis
	Path    string // sqlite
	DSN     string // postgres
	Size    int    // memory
}

// Open creates the configured backend and checks it is reachable.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		store Store
		err   error
	)

	backend := strings.ToLower(cfg.Backend)
	if backend == "" {
		backend = BackendRedis
	}

	switch backend {
	case BackendRedis:
		url := cfg.URL
		if url == "" {
			url = DefaultRedisURL
		}
		store, err = NewRedisStore(url)
	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			path = DefaultSQLitePath
		}
		store, err = NewSQLiteStore(path)
	case BackendPostgres:
		store, err = NewPostgresStore(ctx, cfg.DSN)
	case BackendMemory:
		store, err = NewMemoryStore(cfg.Size)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("cache backend %s unreachable: %w", backend, err)
	}
	return store, nil
}
