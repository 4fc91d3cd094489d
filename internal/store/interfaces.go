// Package store provides persistence for string records behind a single
// interface with interchangeable backends: a PostgreSQL-backed indexed store
// and a transient in-memory map, optionally fronted by a Redis read-through
// cache. The backend is selected by configuration at startup.
package store

import (
	"context"
	"errors"

	"github.com/lexel/strdb/internal/model"
)

// ErrNotFound is returned when no record exists for the given id.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateKey is returned when an insert would violate the content-hash
// uniqueness invariant. The existence check and insert are one atomic unit
// in every implementation, so two concurrent submissions of the same value
// cannot both succeed.
var ErrDuplicateKey = errors.New("record already exists")

// RecordStore is the storage contract for string records. Records are
// immutable after insertion; there is no update operation.
type RecordStore interface {
	// Insert stores a new record, failing with ErrDuplicateKey if a record
	// with the same id is already present.
	Insert(ctx context.Context, record *model.StringRecord) error

	// GetByID retrieves a record by its content hash.
	GetByID(ctx context.Context, id string) (*model.StringRecord, error)

	// Delete removes a record by its content hash, failing with ErrNotFound
	// if absent.
	Delete(ctx context.Context, id string) error

	// List enumerates records matching the predicate. A nil predicate
	// matches everything. Results are ordered by creation time, then id.
	List(ctx context.Context, match func(*model.StringRecord) bool) ([]*model.StringRecord, error)

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close()
}

// RecordCache caches records by content hash. Records are immutable, so
// cached entries can never go stale; deletion is the only invalidation.
type RecordCache interface {
	Get(ctx context.Context, id string) (*model.StringRecord, error)
	Set(ctx context.Context, record *model.StringRecord) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}
