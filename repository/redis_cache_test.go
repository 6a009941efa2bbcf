package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis points at a port nothing listens on.
func unreachableRedis(t *testing.T) *RedisCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewRedisCacheFromClient(client, "test:")
	t.Cleanup(func() { require.NoError(t, cache.Close()) })
	return cache
}

func TestRedisCache_UnavailableServerIsAMiss(t *testing.T) {
	cache := unreachableRedis(t)
	ctx := context.Background()

	assert.Error(t, cache.Ping(ctx))

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)

	assert.Error(t, cache.Set(ctx, "k", "v", time.Minute))
}

func TestRedisCache_CloseTwice(t *testing.T) {
	cache := NewRedisCache("127.0.0.1:1", "", 0, "test:")
	require.NoError(t, cache.Close())
	assert.NoError(t, cache.Close())
}
