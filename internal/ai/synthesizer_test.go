package ai

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/romiras/go-doc-llm/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter records requests and answers with a fixed reply
type fakeCompleter struct {
	reply    string
	err      error
	requests []CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

// countingGate counts admissions without waiting
type countingGate struct {
	acquired int
	released int
}

func (g *countingGate) Acquire(context.Context) (func(), error) {
	g.acquired++
	return func() { g.released++ }, nil
}

// countingStore wraps a store and counts writes
type countingStore struct {
	cache.Store
	sets int
}

func (s *countingStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.sets++
	return s.Store.Set(ctx, key, value, ttl)
}

func newTestSynthesizer(t *testing.T, completer Completer) (*Synthesizer, *countingStore, *countingGate) {
	t.Helper()
	mem, err := cache.NewMemoryStore(16)
	require.NoError(t, err)
	store := &countingStore{Store: mem}
	gate := &countingGate{}

	s, err := NewSynthesizer(&Config{
		Completer: completer,
		Store:     store,
		Gate:      gate,
		Out:       io.Discard,
	})
	require.NoError(t, err)
	return s, store, gate
}

func TestSynthesizeCacheHit(t *testing.T) {
	ctx := context.Background()
	completer := &fakeCompleter{reply: "should not be used"}
	s, store, gate := newTestSynthesizer(t, completer)

	require.NoError(t, store.Store.Set(ctx, "go-llm-doc:Parse", "Parse reads input.", time.Hour))

	text, err := s.Synthesize(ctx, "Parse", "func Parse() {}")
	require.NoError(t, err)
	assert.Equal(t, "Parse reads input.", text)

	assert.Empty(t, completer.requests, "cache hit must not call the completion service")
	assert.Equal(t, 0, gate.acquired, "cache hit must not wait on the gate")
	assert.Equal(t, 0, store.sets)
	assert.Equal(t, Stats{CacheHits: 1}, s.Stats())
}

func TestSynthesizeMiss(t *testing.T) {
	ctx := context.Background()
	completer := &fakeCompleter{reply: "  Parse reads input.\n\n"}
	s, store, gate := newTestSynthesizer(t, completer)

	code := "func Parse(r io.Reader) error {\n\treturn nil\n}"
	text, err := s.Synthesize(ctx, "Parse", code)
	require.NoError(t, err)
	assert.Equal(t, "Parse reads input.", text, "completion text should be trimmed")

	require.Len(t, completer.requests, 1)
	req := completer.requests[0]
	assert.Equal(t, "Parse", req.Name)
	assert.Equal(t, ModelCodestral, req.Model)
	assert.Equal(t, 0.0, req.Temperature)
	assert.Equal(t, 1.0, req.TopP)
	assert.Contains(t, req.Prompt, code)

	assert.Equal(t, 1, gate.acquired)
	assert.Equal(t, 1, gate.released)
	assert.Equal(t, 1, store.sets)

	cached, ok, err := store.Get(ctx, "go-llm-doc:Parse")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Parse reads input.", cached)

	// second call is served from the cache
	text, err = s.Synthesize(ctx, "Parse", code)
	require.NoError(t, err)
	assert.Equal(t, "Parse reads input.", text)
	assert.Len(t, completer.requests, 1)
	assert.Equal(t, Stats{CacheHits: 1, Completions: 1}, s.Stats())
}

func TestSynthesizeContentKey(t *testing.T) {
	ctx := context.Background()
	completer := &fakeCompleter{reply: "Parse reads input."}
	mem, err := cache.NewMemoryStore(16)
	require.NoError(t, err)

	s, err := NewSynthesizer(&Config{
		Completer: completer,
		Store:     mem,
		Gate:      &countingGate{},
		KeyMode:   cache.KeyByContent,
		Out:       io.Discard,
	})
	require.NoError(t, err)

	_, err = s.Synthesize(ctx, "Parse", "func Parse() { a() }")
	require.NoError(t, err)
	_, err = s.Synthesize(ctx, "Parse", "func Parse() { b() }")
	require.NoError(t, err)

	assert.Len(t, completer.requests, 2, "changed body should miss the cache in content mode")
}

func TestSynthesizeEmptyCompletion(t *testing.T) {
	completer := &fakeCompleter{reply: "   \n"}
	s, store, _ := newTestSynthesizer(t, completer)

	_, err := s.Synthesize(context.Background(), "Parse", "func Parse() {}")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
	assert.Equal(t, 0, store.sets, "empty text must not be cached")
}

func TestSynthesizeCompletionError(t *testing.T) {
	boom := errors.New("503 service unavailable")
	completer := &fakeCompleter{err: boom}
	s, store, gate := newTestSynthesizer(t, completer)

	_, err := s.Synthesize(context.Background(), "Parse", "func Parse() {}")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.sets)
	assert.Equal(t, 1, gate.released, "gate slot must be returned on failure")
}

func TestNewSynthesizerValidation(t *testing.T) {
	mem, err := cache.NewMemoryStore(1)
	require.NoError(t, err)

	_, err = NewSynthesizer(&Config{Store: mem})
	assert.Error(t, err)

	_, err = NewSynthesizer(&Config{Completer: StubCompleter{}})
	assert.Error(t, err)

	s, err := NewSynthesizer(&Config{Completer: StubCompleter{}, Store: mem})
	require.NoError(t, err)
	assert.Equal(t, cache.DefaultTTL, s.ttl)
	assert.Equal(t, cache.DefaultPrefix, s.keyPrefix)
	assert.NotNil(t, s.gate)
}
