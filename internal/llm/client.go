package llm

import (
	"context"
	"fmt"
	"time"
)

// Client 大语言模型客户端接口
type Client interface {
	// Generate 根据提示词生成文本
	Generate(ctx context.Context, prompt string) (string, error)

	// Chat 根据对话历史生成回复
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Options LLM客户端配置选项
type Options struct {
	Model       string        // 模型名称
	APIKey      string        // API密钥（本地服务可为空）
	Endpoint    string        // 服务端点
	MaxTokens   int           // 最大生成token数
	Temperature float64       // 采样温度
	Timeout     time.Duration // 请求超时时间
	MaxRetries  int           // 最大重试次数
}

// Option 定义配置选项的函数类型
type Option func(*Options)

// DefaultOptions 返回默认配置
func DefaultOptions() *Options {
	return &Options{
		Model:       "llama3",
		Endpoint:    "http://localhost:11434",
		MaxTokens:   2048,
		Temperature: 0.1,
		Timeout:     120 * time.Second,
		MaxRetries:  3,
	}
}

// WithModel 设置模型名称
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

// WithMaxTokens 设置最大生成token数
func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		if maxTokens > 0 {
			o.MaxTokens = maxTokens
		}
	}
}

// WithTemperature 设置采样温度
func WithTemperature(temperature float64) Option {
	return func(o *Options) {
		if temperature >= 0 {
			o.Temperature = temperature
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

// Factory LLM客户端工厂函数类型
type Factory func(opts ...Option) (Client, error)

// ClientRegistry 注册可用的LLM客户端实现
var ClientRegistry = map[string]Factory{}

// RegisterClient 注册LLM客户端工厂函数
func RegisterClient(name string, factory Factory) {
	ClientRegistry[name] = factory
}

// NewClient 根据提供商名称创建LLM客户端
func NewClient(provider string, opts ...Option) (Client, error) {
	factory, ok := ClientRegistry[provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
	return factory(opts...)
}
