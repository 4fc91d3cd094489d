package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lexel/strdb/internal/analyzer"
	"github.com/lexel/strdb/internal/model"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS string_records (
		id         TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		properties JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)
`

// PostgresStore implements RecordStore for PostgreSQL. The primary key on id
// enforces the content-hash uniqueness invariant atomically.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Ensure PostgresStore implements RecordStore.
var _ RecordStore = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgreSQL record store and ensures the
// schema exists.
func NewPostgresStore(
	host string,
	port int,
	database, user, password string,
	maxConns, minConns int,
	logger *zap.Logger,
) (*PostgresStore, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s pool_max_conns=%d pool_min_conns=%d",
		host, port, database, user, password, maxConns, minConns,
	)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(context.Background(), createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresStore{
		pool:   pool,
		logger: logger,
	}, nil
}

// Insert stores a new record. A primary-key violation maps to
// ErrDuplicateKey, so the uniqueness check and insert are one atomic unit.
func (s *PostgresStore) Insert(ctx context.Context, record *model.StringRecord) error {
	properties, err := json.Marshal(record.Properties)
	if err != nil {
		return fmt.Errorf("failed to marshal properties: %w", err)
	}

	query := `
		INSERT INTO string_records (id, value, properties, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = s.pool.Exec(ctx, query, record.ID, record.Value, properties, record.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// GetByID retrieves a record by its content hash.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*model.StringRecord, error) {
	query := `
		SELECT id, value, properties, created_at
		FROM string_records
		WHERE id = $1
	`

	record, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return record, nil
}

// Delete removes a record by its content hash.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM string_records WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List enumerates records matching the predicate, ordered by creation time
// then id.
func (s *PostgresStore) List(ctx context.Context, match func(*model.StringRecord) bool) ([]*model.StringRecord, error) {
	query := `
		SELECT id, value, properties, created_at
		FROM string_records
		ORDER BY created_at, id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	results := make([]*model.StringRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if match != nil && !match(record) {
			continue
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return results, nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// scanRecord reads one record row, unmarshaling the JSONB properties column.
func scanRecord(row pgx.Row) (*model.StringRecord, error) {
	var record model.StringRecord
	var properties []byte

	if err := row.Scan(&record.ID, &record.Value, &properties, &record.CreatedAt); err != nil {
		return nil, err
	}

	var bundle analyzer.PropertyBundle
	if err := json.Unmarshal(properties, &bundle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal properties: %w", err)
	}
	record.Properties = bundle

	return &record, nil
}
