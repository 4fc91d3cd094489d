package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lexel/strdb/internal/model"
)

// RedisRecordCache implements RecordCache for Redis. Entries carry a TTL so
// a cold cache recovers bounded memory on its own.
type RedisRecordCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// Ensure RedisRecordCache implements RecordCache.
var _ RecordCache = (*RedisRecordCache)(nil)

// NewRedisRecordCache creates a new Redis record cache.
func NewRedisRecordCache(host string, port int, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisRecordCache, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRecordCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Get retrieves a cached record, returning ErrNotFound on a miss.
func (c *RedisRecordCache) Get(ctx context.Context, id string) (*model.StringRecord, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var record model.StringRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached record: %w", err)
	}

	return &record, nil
}

// Set caches a record with the configured TTL.
func (c *RedisRecordCache) Set(ctx context.Context, record *model.StringRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return c.client.Set(ctx, cacheKey(record.ID), data, c.ttl).Err()
}

// Delete evicts a cached record.
func (c *RedisRecordCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, cacheKey(id)).Err()
}

// Ping checks the Redis connection.
func (c *RedisRecordCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *RedisRecordCache) Close() error {
	return c.client.Close()
}

func cacheKey(id string) string {
	return "strdb:record:" + id
}
