// Package factory builds request limiters that share the application's Redis client when one is up.
package factory

import (
	"context"
	"time"

	"github.com/akeren/jobtracker-api/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
)

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type LimiterFactory struct {
	redis  *redis.Client
	logger ratelimit.Logger
}

// NewLimiterFactory pings the cache once. An unreachable or absent Redis selects in-memory limiters.
func NewLimiterFactory(ctx context.Context, cache RedisClientProvider, logger ratelimit.Logger) *LimiterFactory {
	f := &LimiterFactory{logger: logger}
	if cache == nil {
		return f
	}

	client := cache.GetClient()
	if client == nil {
		return f
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if logger != nil {
			logger.Error("Redis unreachable, request limiters fall back to in-memory", "error", err)
		}
		return f
	}

	f.redis = client
	return f
}

func (f *LimiterFactory) Distributed() bool {
	return f.redis != nil
}

// Create returns a limiter whose Redis keys live under "ratelimit:<name>:".
func (f *LimiterFactory) Create(name string, requests int, window time.Duration) ratelimit.RateLimiter {
	return ratelimit.New(ratelimit.Config{
		Requests:  requests,
		Window:    window,
		KeyPrefix: "ratelimit:" + name + ":",
		Redis:     f.redis,
		Logger:    f.logger,
	})
}
