package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"sendit/internal/logx"
)

type redisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter is a fixed window limiter shared by every replica through Redis.
type RedisLimiter struct {
	client redisCounter
	limit  int64
	window time.Duration
	prefix string
	clock  Clock
	logger logx.Logger
}

// NewRedisLimiter allows limit requests per key in each window.
func NewRedisLimiter(client redisCounter, limit int, window time.Duration, clock Clock, logger logx.Logger) *RedisLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "sendit:ratelimit:",
		clock:  clock,
		logger: logger,
	}
}

// Allow counts the request in the current window. Redis failures let the request through.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	slot := l.clock.Now().UnixNano() / int64(l.window)
	k := l.prefix + key + ":" + strconv.FormatInt(slot, 10)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		l.logger.Warn("redis rate limit unavailable", logx.String("key", key), logx.Err(err))
		return true
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, 2*l.window).Err(); err != nil {
			l.logger.Warn("redis rate limit expire failed", logx.String("key", key), logx.Err(err))
		}
	}
	return n <= l.limit
}
