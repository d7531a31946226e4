package cache

import (
	"context"
	"fmt"
	"time"
)

// TokenBlacklist records logged-out token ids until they would have expired.
type TokenBlacklist struct {
	redis *RedisClient
}

// NewTokenBlacklist creates a TokenBlacklist.
func NewTokenBlacklist(redis *RedisClient) *TokenBlacklist {
	return &TokenBlacklist{redis: redis}
}

func (b *TokenBlacklist) key(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// Revoke marks jti revoked for ttl. Already-expired tokens are ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.redis.Set(ctx, b.key(jti), "1", ttl)
}

// IsRevoked reports whether jti was revoked.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return b.redis.Exists(ctx, b.key(jti))
}
