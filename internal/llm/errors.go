package llm

import "fmt"

// LLM服务错误码定义
const (
	ErrCodeRequestFailed   = 1001 // 请求发送失败
	ErrCodeInvalidResponse = 1002 // 响应格式无效
	ErrCodeEmptyPrompt     = 1003 // 提示词为空
	ErrCodeServerError     = 1004 // 服务端错误
	ErrCodeTimeout         = 1005 // 请求超时
)

// LLMError 大语言模型服务错误
type LLMError struct {
	Code    int    // 错误码
	Message string // 错误描述
	Err     error  // 原始错误
}

// Error 实现error接口
func (e *LLMError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm error [%d]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("llm error [%d]: %s", e.Code, e.Message)
}

// Unwrap 返回原始错误
func (e *LLMError) Unwrap() error {
	return e.Err
}

// NewLLMError 创建LLM服务错误
func NewLLMError(code int, message string, err error) *LLMError {
	return &LLMError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
