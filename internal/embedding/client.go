package embedding

import (
	"context"
	"fmt"
	"time"
)

// Client 文本嵌入客户端接口
type Client interface {
	// Embed 将单条文本转换为向量
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch 批量将文本转换为向量
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// GetDimension 返回嵌入向量的维数
	GetDimension() int
}

// Options 嵌入客户端配置选项
type Options struct {
	Model      string        // 嵌入模型名称
	APIKey     string        // API密钥（本地服务可为空）
	Endpoint   string        // 服务端点
	BatchSize  int           // 批量请求大小
	Dimensions int           // 向量维数
	Timeout    time.Duration // 请求超时时间
	MaxRetries int           // 最大重试次数
}

// Option 定义配置选项的函数类型
type Option func(*Options)

// DefaultOptions 返回默认配置
func DefaultOptions() *Options {
	return &Options{
		Model:      "nomic-embed-text",
		Endpoint:   "http://localhost:11434",
		BatchSize:  16,
		Dimensions: 768,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}

// WithModel 设置嵌入模型
func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

// WithAPIKey 设置API密钥
func WithAPIKey(apiKey string) Option {
	return func(o *Options) {
		o.APIKey = apiKey
	}
}

// WithEndpoint 设置服务端点
func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		if endpoint != "" {
			o.Endpoint = endpoint
		}
	}
}

// WithBatchSize 设置批量请求大小
func WithBatchSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.BatchSize = size
		}
	}
}

// WithDimensions 设置向量维数
func WithDimensions(dimensions int) Option {
	return func(o *Options) {
		if dimensions > 0 {
			o.Dimensions = dimensions
		}
	}
}

// WithTimeout 设置请求超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.Timeout = timeout
		}
	}
}

// WithMaxRetries 设置最大重试次数
func WithMaxRetries(retries int) Option {
	return func(o *Options) {
		if retries >= 0 {
			o.MaxRetries = retries
		}
	}
}

// Factory 嵌入客户端工厂函数类型
type Factory func(opts ...Option) (Client, error)

// ClientRegistry 注册可用的嵌入客户端实现
var ClientRegistry = map[string]Factory{}

// RegisterClient 注册嵌入客户端工厂函数
func RegisterClient(name string, factory Factory) {
	ClientRegistry[name] = factory
}

// NewClient 根据提供商名称创建嵌入客户端
func NewClient(provider string, opts ...Option) (Client, error) {
	factory, ok := ClientRegistry[provider]
	if !ok {
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
	return factory(opts...)
}
