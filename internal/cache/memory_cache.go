package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache 进程内缓存实现
type MemoryCache struct {
	store      *gocache.Cache
	defaultTTL time.Duration
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache(config Config) (Cache, error) {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &MemoryCache{
		store:      gocache.New(ttl, 10*time.Minute),
		defaultTTL: ttl,
	}, nil
}

// Get 获取缓存值
func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, found := c.store.Get(key)
	if !found {
		return "", false, nil
	}

	str, ok := value.(string)
	if !ok {
		return "", false, nil
	}
	return str, true, nil
}

// Set 设置缓存值
func (c *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.store.Set(key, value, ttl)
	return nil
}

// Delete 删除缓存键
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Close 关闭缓存
// 进程内缓存无需清理
func (c *MemoryCache) Close() error {
	return nil
}

func init() {
	RegisterCache("memory", NewMemoryCache)
}
