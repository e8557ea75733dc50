package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// 日志字段名定义
const (
	FieldTraceID  = "trace_id"
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldLatency  = "latency"
	FieldClientIP = "client_ip"
)

// TraceIDKey 请求上下文中trace id的键名
const TraceIDKey = "trace_id"

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
}

// GetLogger 获取全局日志实例
func GetLogger() *logrus.Logger {
	return log
}

// SetTraceID 为每个请求生成trace id
// trace id同时写入响应头，便于问题排查
func SetTraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(TraceIDKey, traceID)
		c.Header("X-Trace-ID", traceID)
		c.Next()
	}
}

// GetTraceID 从请求上下文中获取trace id
func GetTraceID(c *gin.Context) string {
	if traceID, exists := c.Get(TraceIDKey); exists {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return ""
}

// Logger 请求日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.WithFields(logrus.Fields{
			FieldTraceID:  GetTraceID(c),
			FieldMethod:   c.Request.Method,
			FieldPath:     path,
			FieldStatus:   c.Writer.Status(),
			FieldLatency:  time.Since(start).String(),
			FieldClientIP: c.ClientIP(),
		}).Info("Request completed")
	}
}

// Cors 跨域中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Trace-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
