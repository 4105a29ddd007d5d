package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/nishantchy/ecom-microservice/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window counter shared by every process
// instance, so admission stays correct under scale-out. The increment happens
// even when the call is then denied.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *RedisRateLimiter) Admit(ctx context.Context, scopeKey string) (int, bool, error) {
	windowIdx := time.Now().Unix() / int64(l.window/time.Second)
	key := fmt.Sprintf("ratelimit:%s:%d", scopeKey, windowIdx)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("rate counter incr: %w", err)
	}
	if count == 1 {
		// first hit in this window owns the expiry
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return 0, false, fmt.Errorf("rate counter expire: %w", err)
		}
	}

	if count > int64(l.limit) {
		return 0, false, nil
	}
	return l.limit - int(count), true, nil
}

var _ usecase.RateAdmitter = (*RedisRateLimiter)(nil)
