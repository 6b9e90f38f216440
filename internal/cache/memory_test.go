package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore(8)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "go-llm-doc:Parse", "Parse reads input.", time.Hour))

	value, ok, err := store.Get(ctx, "go-llm-doc:Parse")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Parse reads input.", value)

	now = now.Add(59 * time.Minute)
	_, ok, _ = store.Get(ctx, "go-llm-doc:Parse")
	assert.True(t, ok, "entry should still be live before the TTL")

	now = now.Add(time.Minute)
	_, ok, err = store.Get(ctx, "go-llm-doc:Parse")
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire at the TTL")
	assert.Equal(t, 0, store.Len(), "expired entry should be dropped on read")
}

func TestMemoryStoreEviction(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore(2)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "a", "1", time.Hour))
	require.NoError(t, store.Set(ctx, "b", "2", time.Hour))
	require.NoError(t, store.Set(ctx, "c", "3", time.Hour))

	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok, "least recently used entry should be evicted")
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore(0)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "k", "old", time.Hour))
	require.NoError(t, store.Set(ctx, "k", "new", time.Hour))

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", value)
	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.Close())
}
