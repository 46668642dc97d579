package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"sendit/internal/config"
	"sendit/internal/http/middleware/ratelimit"
	"sendit/internal/logx"
)

// newRedisClient returns nil when REDIS_ADDR is not set.
func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RateLimit.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
}

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock, client *redis.Client, logger logx.Logger) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	if client != nil {
		logger.Info("rate limit shared through redis", logx.String("addr", rl.RedisAddr))
		return ratelimit.NewRedisLimiter(client, rl.Burst, rl.Window, clock, logger)
	}
	return ratelimit.NewTokenBucketLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock{}
}

type rateLimitIn struct {
	dig.In

	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter)
}

func registerRateLimit(container *dig.Container) error {
	return provideAll(container,
		newRedisClient,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
	)
}
