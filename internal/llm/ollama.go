package llm

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

// OllamaClient 基于Ollama的LLM客户端
type OllamaClient struct {
	options    *Options
	httpClient *http.Client
}

// NewOllamaClient 创建Ollama LLM客户端
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

// Generate 根据提示词生成文本
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", NewLLMError(ErrCodeEmptyPrompt, "generation prompt is empty", nil)
	}

	reqBody := ollamaGenerateRequest{
		Model:  c.options.Model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": c.options.Temperature,
			"num_predict": c.options.MaxTokens,
		},
	}

	var response string
	err := c.withRetry(ctx, func() error {
		var err error
		response, err = c.doGenerate(ctx, reqBody)
		return err
	})
	return response, err
}

// Chat 根据对话历史生成回复
func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", NewLLMError(ErrCodeEmptyPrompt, "chat messages are empty", nil)
	}

	reqBody := ollamaChatRequest{
		Model:    c.options.Model,
		Messages: messages,
		Stream:   false,
		Options: map[string]interface{}{
			"temperature": c.options.Temperature,
			"num_predict": c.options.MaxTokens,
		},
	}

	var response string
	err := c.withRetry(ctx, func() error {
		var err error
		response, err = c.doChat(ctx, reqBody)
		return err
	})
	return response, err
}

// withRetry 带指数退避的重试执行
func (c *OllamaClient) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= c.options.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return NewLLMError(ErrCodeTimeout, "llm request cancelled", ctx.Err())
			case <-time.After(backoff):
			}
		}

		if err := fn(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// doGenerate 执行一次文本生成请求
func (c *OllamaClient) doGenerate(ctx context.Context, reqBody ollamaGenerateRequest) (string, error) {
	body, err := c.postJSON(ctx, "/api/generate", reqBody)
	if err != nil {
		return "", err
	}

	var genResp ollamaGenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", NewLLMError(ErrCodeInvalidResponse, "failed to unmarshal generate response", err)
	}

	return genResp.Response, nil
}

// doChat 执行一次对话请求
func (c *OllamaClient) doChat(ctx context.Context, reqBody ollamaChatRequest) (string, error) {
	body, err := c.postJSON(ctx, "/api/chat", reqBody)
	if err != nil {
		return "", err
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", NewLLMError(ErrCodeInvalidResponse, "failed to unmarshal chat response", err)
	}

	return chatResp.Message.Content, nil
}

// postJSON 向Ollama服务发送JSON请求
func (c *OllamaClient) postJSON(ctx context.Context, path string, reqBody interface{}) ([]byte, error) {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, NewLLMError(ErrCodeRequestFailed, "failed to marshal llm request", err)
	}

	url := strings.TrimSuffix(c.options.Endpoint, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, NewLLMError(ErrCodeRequestFailed, "failed to create llm request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewLLMError(ErrCodeRequestFailed, "failed to send llm request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewLLMError(ErrCodeInvalidResponse, "failed to read llm response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewLLMError(ErrCodeServerError,
			fmt.Sprintf("llm server returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	return body, nil
}

func init() {
	RegisterClient("ollama", NewOllamaClient)
}
