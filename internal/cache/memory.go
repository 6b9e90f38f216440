package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a bounded in-process cache with per-entry TTL.
// Entries do not survive the process.
type MemoryStore struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

// NewMemoryStore creates a store holding at most size entries
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = DefaultMemorySize
	}
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &MemoryStore{entries: entries, now: time.Now}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	ent, ok := s.entries.Get(key)
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(ent.expiresAt) {
		s.entries.Remove(key)
		return "", false, nil
	}
	return ent.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.entries.Add(key, memoryEntry{value: value, expiresAt: s.now().Add(ttl)})
	return nil
}

// Len returns the number of entries, expired ones included
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error {
	s.entries.Purge()
	return nil
}
