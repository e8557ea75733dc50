package embedding

import "fmt"

// 嵌入服务错误码定义
const (
	ErrCodeRequestFailed   = 2001 // 请求发送失败
	ErrCodeInvalidResponse = 2002 // 响应格式无效
	ErrCodeEmptyInput      = 2003 // 输入文本为空
	ErrCodeServerError     = 2004 // 服务端错误
	ErrCodeTimeout         = 2005 // 请求超时
)

// EmbeddingError 嵌入服务错误
type EmbeddingError struct {
	Code    int    // 错误码
	Message string // 错误描述
	Err     error  // 原始错误
}

// Error 实现error接口
func (e *EmbeddingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedding error [%d]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("embedding error [%d]: %s", e.Code, e.Message)
}

// Unwrap 返回原始错误
func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// NewEmbeddingError 创建嵌入服务错误
func NewEmbeddingError(code int, message string, err error) *EmbeddingError {
	return &EmbeddingError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
