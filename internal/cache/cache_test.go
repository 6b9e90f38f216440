package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		fn       string
		code     string
		mode     KeyMode
		expected string
	}{
		{
			name:     "name mode",
			prefix:   "go-llm-doc",
			fn:       "Parse",
			code:     "func Parse() {}",
			mode:     KeyByName,
			expected: "go-llm-doc:Parse",
		},
		{
			name:     "empty prefix falls back to default",
			fn:       "Server.Start",
			mode:     KeyByName,
			expected: DefaultPrefix + ":Server.Start",
		},
		{
			name:     "unset mode behaves like name mode",
			prefix:   "p",
			fn:       "f",
			code:     "func f() {}",
			expected: "p:f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.prefix, tt.fn, tt.code, tt.mode))
		})
	}
}

func TestKeyByContent(t *testing.T) {
	a := Key("p", "f", "func f() { return }", KeyByContent)
	b := Key("p", "f", "func f() { panic(1) }", KeyByContent)

	assert.NotEqual(t, a, b, "different bodies must not share an entry")
	assert.Equal(t, a, Key("p", "f", "func f() { return }", KeyByContent))
	assert.Len(t, a, len("p:f:")+16)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "memcached"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, Config{Backend: "Memory", Size: 4})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, "k", "v", DefaultTTL))
	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, Config{Backend: BackendSQLite, Path: t.TempDir() + "/nested/cache.db"})
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
