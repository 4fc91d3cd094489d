package store

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lexel/strdb/internal/model"
)

// CachedStore layers a read-through cache over a RecordStore. Records are
// immutable, so a cached entry can only ever be evicted, never updated.
// Cache failures degrade to the underlying store and are logged at Warn;
// they never fail the request.
type CachedStore struct {
	store  RecordStore
	cache  RecordCache
	logger *zap.Logger
}

// Ensure CachedStore implements RecordStore.
var _ RecordStore = (*CachedStore)(nil)

// NewCachedStore wraps store with cache.
func NewCachedStore(store RecordStore, cache RecordCache, logger *zap.Logger) *CachedStore {
	return &CachedStore{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Insert writes through to the store and warms the cache on success.
func (s *CachedStore) Insert(ctx context.Context, record *model.StringRecord) error {
	if err := s.store.Insert(ctx, record); err != nil {
		return err
	}

	if err := s.cache.Set(ctx, record); err != nil {
		s.logger.Warn("failed to warm record cache",
			zap.String("id", record.ID),
			zap.Error(err))
	}

	return nil
}

// GetByID serves from the cache when possible and falls back to the store,
// populating the cache on the way back.
func (s *CachedStore) GetByID(ctx context.Context, id string) (*model.StringRecord, error) {
	record, err := s.cache.Get(ctx, id)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn("record cache read failed",
			zap.String("id", id),
			zap.Error(err))
	}

	record, err = s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, record); err != nil {
		s.logger.Warn("failed to populate record cache",
			zap.String("id", id),
			zap.Error(err))
	}

	return record, nil
}

// Delete removes the record from the store and evicts the cached copy.
func (s *CachedStore) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to evict cached record",
			zap.String("id", id),
			zap.Error(err))
	}

	return nil
}

// List bypasses the cache; enumeration always reads the backing store.
func (s *CachedStore) List(ctx context.Context, match func(*model.StringRecord) bool) ([]*model.StringRecord, error) {
	return s.store.List(ctx, match)
}

// Ping checks the backing store.
func (s *CachedStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close closes the cache and the backing store.
func (s *CachedStore) Close() {
	if err := s.cache.Close(); err != nil {
		s.logger.Warn("failed to close record cache", zap.Error(err))
	}
	s.store.Close()
}
