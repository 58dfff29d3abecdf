package insights

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "doc"))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "doc", v)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)

	// Expired entries are pruned by the next write
	require.NoError(t, c.Set(ctx, "other", "doc"))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_ZeroTTL(t *testing.T) {
	c := NewMemoryCache(0)
	require.NoError(t, c.Set(context.Background(), "k", "doc"))

	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisCache(client, time.Minute)

	_, ok, err := c.Get(ctx, "user-1:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "user-1:abc", "doc"))
	assert.True(t, mr.Exists("insights:user-1:abc"))

	v, ok, err := c.Get(ctx, "user-1:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "doc", v)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "user-1:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	c := NewRedisCache(client, time.Minute)
	_, _, err := c.Get(context.Background(), "k")
	assert.ErrorContains(t, err, "redis get failed")
	assert.ErrorContains(t, c.Set(context.Background(), "k", "v"), "redis set failed")
}

func TestNewCache(t *testing.T) {
	c, err := NewCache(Config{Cache: CacheMemory, TTLSeconds: 60})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	c, err = NewCache(Config{Cache: CacheRedis, RedisAddr: "localhost:0"})
	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, c)

	_, err = NewCache(Config{Cache: "memcached"})
	assert.EqualError(t, err, "unsupported insights cache: memcached")
}
