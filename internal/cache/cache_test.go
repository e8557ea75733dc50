package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	c, err := NewMemoryCache(Config{TTL: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()

	t.Run("设置后可以读取", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "query:test", "cached answer", 0))

		value, found, err := c.Get(ctx, "query:test")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "cached answer", value)
	})

	t.Run("不存在的键返回未命中", func(t *testing.T) {
		_, found, err := c.Get(ctx, "query:absent")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("删除后无法读取", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "query:gone", "value", 0))
		require.NoError(t, c.Delete(ctx, "query:gone"))

		_, found, err := c.Get(ctx, "query:gone")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRedisCache(t *testing.T) {
	server := miniredis.RunT(t)

	c, err := NewRedisCache(Config{Address: server.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()

	t.Run("设置后可以读取", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "query:redis", "redis answer", 0))

		value, found, err := c.Get(ctx, "query:redis")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "redis answer", value)
	})

	t.Run("不存在的键返回未命中", func(t *testing.T) {
		_, found, err := c.Get(ctx, "query:absent")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("过期后无法读取", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "query:expiring", "value", time.Second))

		server.FastForward(2 * time.Second)

		_, found, err := c.Get(ctx, "query:expiring")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestGenerateCacheKey(t *testing.T) {
	t.Run("生成带前缀的缓存键", func(t *testing.T) {
		assert.Equal(t, "query:what is ADGM", GenerateCacheKey("query", "what is ADGM"))
		assert.Equal(t, "review:batch:42", GenerateCacheKey("review", "batch", "42"))
	})
}

func TestCacheRegistry(t *testing.T) {
	t.Run("按类型创建缓存实例", func(t *testing.T) {
		c, err := NewCache(Config{Type: "memory"})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("未知类型返回错误", func(t *testing.T) {
		_, err := NewCache(Config{Type: "unknown"})
		assert.Error(t, err)
	})
}
