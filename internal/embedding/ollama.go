package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaClient 基于Ollama的嵌入客户端
type OllamaClient struct {
	options    *Options
	httpClient *http.Client
}

// ollamaEmbedRequest Ollama嵌入请求结构
type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// ollamaEmbedResponse Ollama嵌入响应结构
type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewOllamaClient 创建Ollama嵌入客户端
func NewOllamaClient(opts ...Option) (Client, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &OllamaClient{
		options: options,
		httpClient: &http.Client{
			Timeout: options.Timeout,
		},
	}, nil
}

// Embed 将单条文本转换为向量
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewEmbeddingError(ErrCodeEmptyInput, "embedding input text is empty", nil)
	}

	var lastErr error
	for attempt := 0; attempt <= c.options.MaxRetries; attempt++ {
		if attempt > 0 {
			// 指数退避重试
			backoff := time.Duration(1<<uint(attempt)) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, NewEmbeddingError(ErrCodeTimeout, "embedding request cancelled", ctx.Err())
			case <-time.After(backoff):
			}
		}

		vector, err := c.embedOnce(ctx, text)
		if err == nil {
			return vector, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// embedOnce 执行一次嵌入请求
func (c *OllamaClient) embedOnce(ctx context.Context, text string) ([]float32, error) {
	reqBody := ollamaEmbedRequest{
		Model:  c.options.Model,
		Prompt: text,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, NewEmbeddingError(ErrCodeRequestFailed, "failed to marshal embedding request", err)
	}

	url := strings.TrimSuffix(c.options.Endpoint, "/") + "/api/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, NewEmbeddingError(ErrCodeRequestFailed, "failed to create embedding request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewEmbeddingError(ErrCodeRequestFailed, "failed to send embedding request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewEmbeddingError(ErrCodeInvalidResponse, "failed to read embedding response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewEmbeddingError(ErrCodeServerError,
			fmt.Sprintf("embedding server returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var embedResp ollamaEmbedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, NewEmbeddingError(ErrCodeInvalidResponse, "failed to unmarshal embedding response", err)
	}

	if len(embedResp.Embedding) == 0 {
		return nil, NewEmbeddingError(ErrCodeInvalidResponse, "embedding response contains no vector", nil)
	}

	return embedResp.Embedding, nil
}

// EmbedBatch 批量将文本转换为向量
// Ollama的embeddings接口不支持批量请求，按批次逐条调用
func (c *OllamaClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d of %d: %w", len(vectors)+1, len(texts), err)
		}
		vectors = append(vectors, vector)
	}

	return vectors, nil
}

// GetDimension 返回嵌入向量的维数
func (c *OllamaClient) GetDimension() int {
	return c.options.Dimensions
}

// Ping 检查Ollama服务是否可用
func (c *OllamaClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.options.Endpoint, nil)
	if err != nil {
		return NewEmbeddingError(ErrCodeRequestFailed, "failed to create ping request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewEmbeddingError(ErrCodeRequestFailed, "embedding server is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewEmbeddingError(ErrCodeServerError,
			fmt.Sprintf("embedding server returned status %d", resp.StatusCode), nil)
	}
	return nil
}

func init() {
	RegisterClient("ollama", NewOllamaClient)
}
