package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const cacheKeyPrefix = "nexus:stats:"

// Cache stores decoded snapshots per tenant
type Cache interface {
	Get(ctx context.Context, tenantID string) (*Snapshot, bool, error)
	Set(ctx context.Context, tenantID string, s *Snapshot) error
	Invalidate(ctx context.Context, tenantID string) error
}

// RedisCache keeps snapshots in redis for a fixed TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(tenantID string) string {
	return cacheKeyPrefix + tenantID
}

func (c *RedisCache) Get(ctx context.Context, tenantID string) (*Snapshot, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached stats: %w", err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (c *RedisCache) Set(ctx context.Context, tenantID string, s *Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(tenantID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cached stats: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, tenantID string) error {
	if err := c.client.Del(ctx, cacheKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("drop cached stats: %w", err)
	}
	return nil
}
