package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误类型定义
const (
	ErrorTypeBadRequest         = "BAD_REQUEST"
	ErrorTypeNotFound           = "NOT_FOUND"
	ErrorTypeInternal           = "INTERNAL_ERROR"
	ErrorTypeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// AppError 应用级错误
type AppError struct {
	Type    string `json:"type"`              // 错误类型
	Message string `json:"message"`           // 错误描述
	Details string `json:"details,omitempty"` // 详细信息
	Code    int    `json:"-"`                 // HTTP状态码
}

// Error 实现error接口
func (e *AppError) Error() string {
	return e.Message
}

// NewBadRequestError 创建请求参数错误
func NewBadRequestError(message string, details string) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Message: message,
		Details: details,
		Code:    http.StatusBadRequest,
	}
}

// NewNotFoundError 创建资源不存在错误
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
		Code:    http.StatusNotFound,
	}
}

// NewInternalError 创建内部错误
func NewInternalError(message string, details string) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Details: details,
		Code:    http.StatusInternalServerError,
	}
}

// NewServiceUnavailableError 创建服务不可用错误
func NewServiceUnavailableError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeServiceUnavailable,
		Message: message,
		Code:    http.StatusServiceUnavailable,
	}
}

// ErrorMiddleware 错误处理中间件，捕获panic并返回统一的错误响应
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(logrus.Fields{
					FieldTraceID: GetTraceID(c),
					"panic":      r,
				}).Error("Request panicked")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":     http.StatusInternalServerError,
					"message":  "internal server error",
					"trace_id": GetTraceID(c),
				})
			}
		}()
		c.Next()
	}
}

// HandleError 将错误转换为统一的HTTP错误响应
func HandleError(c *gin.Context, err error) {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = NewInternalError("internal server error", err.Error())
	}

	log.WithFields(logrus.Fields{
		FieldTraceID: GetTraceID(c),
		"type":       appErr.Type,
		"details":    appErr.Details,
	}).Error(appErr.Message)

	c.AbortWithStatusJSON(appErr.Code, gin.H{
		"code":     appErr.Code,
		"message":  appErr.Message,
		"type":     appErr.Type,
		"trace_id": GetTraceID(c),
	})
}
