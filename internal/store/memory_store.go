package store

import (
	"context"
	"sort"
	"sync"

	"github.com/lexel/strdb/internal/model"
)

// MemoryStore implements RecordStore with a mutex-guarded in-process map.
// It is the transient backend: contents are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*model.StringRecord
}

// Ensure MemoryStore implements RecordStore.
var _ RecordStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*model.StringRecord),
	}
}

// Insert stores a new record. The existence check and insert happen under
// the write lock, so duplicate submissions race safely.
func (s *MemoryStore) Insert(ctx context.Context, record *model.StringRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ID]; ok {
		return ErrDuplicateKey
	}

	cp := *record
	s.records[record.ID] = &cp
	return nil
}

// GetByID retrieves a record by its content hash.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*model.StringRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *record
	return &cp, nil
}

// Delete removes a record by its content hash.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}

	delete(s.records, id)
	return nil
}

// List enumerates records matching the predicate, ordered by creation time
// then id so output is deterministic.
func (s *MemoryStore) List(ctx context.Context, match func(*model.StringRecord) bool) ([]*model.StringRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*model.StringRecord, 0, len(s.records))
	for _, record := range s.records {
		if match != nil && !match(record) {
			continue
		}
		cp := *record
		results = append(results, &cp)
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})

	return results, nil
}

// Ping always succeeds for the in-memory backend.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() {}
