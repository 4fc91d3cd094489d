package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexel/strdb/internal/model"
)

// fakeCache is an in-process RecordCache for testing the cached store
// without a Redis instance.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*model.StringRecord
	gets    int
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*model.StringRecord)}
}

func (c *fakeCache) Get(ctx context.Context, id string) (*model.StringRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	record, ok := c.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.hits++
	cp := *record
	return &cp, nil
}

func (c *fakeCache) Set(ctx context.Context, record *model.StringRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *record
	c.entries[record.ID] = &cp
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }
func (c *fakeCache) Close() error                   { return nil }

func newCachedStore() (*CachedStore, *fakeCache) {
	cache := newFakeCache()
	return NewCachedStore(NewMemoryStore(), cache, zap.NewNop()), cache
}

func TestCachedStore_InsertWarmsCache(t *testing.T) {
	s, cache := newCachedStore()
	ctx := context.Background()

	record := model.NewStringRecord("hello")
	require.NoError(t, s.Insert(ctx, record))

	got, err := s.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Value)
	assert.Equal(t, 1, cache.hits, "read after insert should hit the cache")
}

func TestCachedStore_ReadThroughOnMiss(t *testing.T) {
	backing := NewMemoryStore()
	cache := newFakeCache()
	s := NewCachedStore(backing, cache, zap.NewNop())
	ctx := context.Background()

	// Insert directly into the backing store so the cache is cold.
	record := model.NewStringRecord("cold")
	require.NoError(t, backing.Insert(ctx, record))

	got, err := s.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "cold", got.Value)

	// Second read should be a cache hit.
	_, err = s.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
}

func TestCachedStore_DeleteEvicts(t *testing.T) {
	s, cache := newCachedStore()
	ctx := context.Background()

	record := model.NewStringRecord("transient")
	require.NoError(t, s.Insert(ctx, record))
	require.NoError(t, s.Delete(ctx, record.ID))

	_, ok := cache.entries[record.ID]
	assert.False(t, ok, "delete must evict the cached entry")

	_, err := s.GetByID(ctx, record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedStore_DuplicateInsertPassesThrough(t *testing.T) {
	s, _ := newCachedStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, model.NewStringRecord("dup")))
	assert.ErrorIs(t, s.Insert(ctx, model.NewStringRecord("dup")), ErrDuplicateKey)
}
