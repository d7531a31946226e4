package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// StatsCache keeps the last computed dashboard stats per store for a short
// TTL. Writes that touch orders or inventory must call Invalidate.
type StatsCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewStatsCache creates a StatsCache.
func NewStatsCache(redis *RedisClient, ttl time.Duration) *StatsCache {
	return &StatsCache{redis: redis, ttl: ttl}
}

func (c *StatsCache) key(storeID string) string {
	return fmt.Sprintf("dashboard:stats:%s", storeID)
}

// Get decodes the cached stats for storeID into dst. Returns ErrMiss when absent.
func (c *StatsCache) Get(ctx context.Context, storeID string, dst any) error {
	raw, err := c.redis.Get(ctx, c.key(storeID))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return nil
}

// Set stores stats for storeID. A zero TTL disables caching.
func (c *StatsCache) Set(ctx context.Context, storeID string, stats any) error {
	if c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	return c.redis.Set(ctx, c.key(storeID), string(data), c.ttl)
}

// Invalidate drops the cached stats for storeID.
func (c *StatsCache) Invalidate(ctx context.Context, storeID string) error {
	return c.redis.Delete(ctx, c.key(storeID))
}
