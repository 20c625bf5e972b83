package factory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"

	"github.com/akeren/jobtracker-api/pkg/ratelimit"
)

type clientProvider struct {
	client *redis.Client
}

func (p clientProvider) GetClient() *redis.Client { return p.client }

func TestLimiterFactory_UsesRedisWhenReachable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	f := NewLimiterFactory(context.Background(), clientProvider{client}, nil)
	assert.True(t, f.Distributed())

	limiter := f.Create("waitlist", 1, time.Minute)
	_, ok := limiter.(*ratelimit.RedisRateLimiter)
	assert.True(t, ok)

	limited, err := limiter.IsLimited(context.Background(), "203.0.113.9")
	assert.NoError(t, err)
	assert.False(t, limited)
	assert.True(t, mr.Exists("ratelimit:waitlist:203.0.113.9"))
}

func TestLimiterFactory_FallsBackToMemory(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	f := NewLimiterFactory(context.Background(), clientProvider{client}, nil)
	assert.False(t, f.Distributed())

	_, ok := f.Create("default", 10, time.Minute).(*ratelimit.InMemoryRateLimiter)
	assert.True(t, ok)

	assert.False(t, NewLimiterFactory(context.Background(), nil, nil).Distributed())
}
