package verify

import (
	"context"
	"time"

	"reclaim/internal/repositories/cache"
)

// MaxPinAttempts is the number of consecutive PIN mismatches allowed per
// claim before the claim locks.
const MaxPinAttempts = 5

// LockoutWindow is how long the mismatch counter (and therefore the lockout)
// survives.
const LockoutWindow = 15 * time.Minute

// RedisAttemptLimiter counts PIN mismatches per claim code in Redis.
type RedisAttemptLimiter struct {
	cache  *cache.CacheService
	window time.Duration
}

func NewRedisAttemptLimiter(cacheSvc *cache.CacheService) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{
		cache:  cacheSvc,
		window: LockoutWindow,
	}
}

func (l *RedisAttemptLimiter) key(code string) string {
	return l.cache.GenerateKey("claim", "pin_attempts", code)
}

func (l *RedisAttemptLimiter) Fail(ctx context.Context, code string) (int64, error) {
	return l.cache.IncrWithTTL(ctx, l.key(code), l.window)
}

func (l *RedisAttemptLimiter) Count(ctx context.Context, code string) (int64, error) {
	return l.cache.GetCount(ctx, l.key(code))
}

func (l *RedisAttemptLimiter) Reset(ctx context.Context, code string) error {
	return l.cache.Delete(ctx, l.key(code))
}
