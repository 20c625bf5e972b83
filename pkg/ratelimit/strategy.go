// Package ratelimit throttles HTTP callers per key, in memory or across instances through Redis.
package ratelimit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

type Logger interface {
	Error(msg string, args ...any)
}

type RateLimiter interface {
	Limit() (int, time.Duration)
	IsLimited(ctx context.Context, key string) (bool, error)
}

// InMemoryRateLimiter keeps one token bucket per key.
type InMemoryRateLimiter struct {
	requests int
	window   time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	calls   uint64
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewInMemoryRateLimiter(requests int, window time.Duration) *InMemoryRateLimiter {
	if requests <= 0 {
		requests = 1
	}
	return &InMemoryRateLimiter{
		requests: requests,
		window:   window,
		buckets:  make(map[string]*bucket),
	}
}

func (r *InMemoryRateLimiter) Limit() (int, time.Duration) {
	return r.requests, r.window
}

func (r *InMemoryRateLimiter) IsLimited(_ context.Context, key string) (bool, error) {
	if key == "" {
		key = "unknown"
	}
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(r.window/time.Duration(r.requests)), r.requests)}
		r.buckets[key] = b
	}
	b.lastSeen = now

	r.calls++
	if r.calls%1024 == 0 {
		r.evictIdle(now.Add(-2 * r.window))
	}

	return !b.limiter.AllowN(now, 1), nil
}

func (r *InMemoryRateLimiter) evictIdle(cutoff time.Time) {
	for key, b := range r.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(r.buckets, key)
		}
	}
}

// slidingWindow trims the sorted set to the window, then admits the call if there is room.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) >= limit then
	return 1
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window * 2)
return 0
`)

// RedisRateLimiter shares a sliding window across every instance talking to the same Redis.
type RedisRateLimiter struct {
	client    *redis.Client
	requests  int
	window    time.Duration
	keyPrefix string
	logger    Logger
	now       func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, requests int, window time.Duration, keyPrefix string, logger Logger) *RedisRateLimiter {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	return &RedisRateLimiter{
		client:    client,
		requests:  requests,
		window:    window,
		keyPrefix: keyPrefix,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *RedisRateLimiter) Limit() (int, time.Duration) {
	return r.requests, r.window
}

// IsLimited returns an error when Redis is unreachable; the caller decides whether to fail open.
func (r *RedisRateLimiter) IsLimited(ctx context.Context, key string) (bool, error) {
	fullKey := r.keyPrefix + key

	res, err := slidingWindow.Run(ctx, r.client, []string{fullKey},
		r.now().UnixMilli(), r.window.Milliseconds(), r.requests, memberID()).Int64()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Redis rate limit script failed", "key", fullKey, "error", err)
		}
		return false, fmt.Errorf("ratelimit: redis: %w", err)
	}

	return res == 1, nil
}

func memberID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

type Config struct {
	Requests  int
	Window    time.Duration
	KeyPrefix string
	Redis     *redis.Client // nil selects the in-memory limiter
	Logger    Logger
}

func New(cfg Config) RateLimiter {
	if cfg.Redis != nil {
		return NewRedisRateLimiter(cfg.Redis, cfg.Requests, cfg.Window, cfg.KeyPrefix, cfg.Logger)
	}
	return NewInMemoryRateLimiter(cfg.Requests, cfg.Window)
}
