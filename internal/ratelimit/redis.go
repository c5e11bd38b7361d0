package ratelimit

import (
	"context"

	"go.uber.org/zap"

	"intersectionreg/internal/cache"
)

const redisKeyPrefix = "ratelimit:"

// RedisLimiter shares fixed-window counters between instances through Redis.
// While Redis is unreachable it degrades to a process-local MemoryLimiter.
type RedisLimiter struct {
	cache    *cache.Client
	config   Config
	fallback *MemoryLimiter
	log      *zap.Logger
}

// NewRedisLimiter creates a Redis-backed fixed-window limiter.
func NewRedisLimiter(c *cache.Client, cfg Config, log *zap.Logger) *RedisLimiter {
	cfg = cfg.withDefaults()
	return &RedisLimiter{
		cache:    c,
		config:   cfg,
		fallback: NewMemoryLimiter(cfg),
		log:      log,
	}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	count, err := l.cache.IncrWindow(ctx, redisKeyPrefix+key, l.config.Window)
	if err != nil {
		l.log.Warn("rate limit counter unavailable, using local window", zap.String("client", key), zap.Error(err))
		return l.fallback.Allow(ctx, key)
	}
	return count <= int64(l.config.MaxRequests)
}
