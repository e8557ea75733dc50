package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache 缓存接口
// 用于缓存问答结果等计算代价较高的数据
type Cache interface {
	// Get 获取缓存值，第二个返回值表示键是否存在
	Get(ctx context.Context, key string) (string, bool, error)

	// Set 设置缓存值
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete 删除缓存键
	Delete(ctx context.Context, key string) error

	// Close 关闭缓存连接
	Close() error
}

// Config 缓存配置
type Config struct {
	Type     string        // 缓存类型："memory"或"redis"
	Address  string        // Redis地址
	Password string        // Redis密码
	DB       int           // Redis数据库编号
	TTL      time.Duration // 默认过期时间
}

// Factory 缓存工厂函数类型
type Factory func(config Config) (Cache, error)

// CacheRegistry 注册可用的缓存实现
var CacheRegistry = map[string]Factory{}

// RegisterCache 注册缓存工厂函数
func RegisterCache(name string, factory Factory) {
	CacheRegistry[name] = factory
}

// NewCache 根据配置创建缓存实例
func NewCache(config Config) (Cache, error) {
	factory, ok := CacheRegistry[config.Type]
	if !ok {
		return nil, fmt.Errorf("unknown cache type: %s", config.Type)
	}
	return factory(config)
}

// GenerateCacheKey 生成带前缀的缓存键
func GenerateCacheKey(prefix string, parts ...string) string {
	elements := append([]string{prefix}, parts...)
	return strings.Join(elements, ":")
}
