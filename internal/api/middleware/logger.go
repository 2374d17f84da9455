package middleware

import (
	"time"

	"plaza-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 探活和文档路由不进访问日志
var silentPaths = map[string]bool{
	"/healthz": true,
}

// Logger Gin访问日志中间件，按响应状态分级
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if silentPaths[c.Request.URL.Path] {
			return
		}

		duration := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.String("ip", c.ClientIP()),
			zap.Duration("duration", duration),
			zap.Int("body_size", c.Writer.Size()),
		}

		switch {
		case status >= 500:
			logger.Error("HTTP Request", fields...)
		case status >= 400:
			logger.Warn("HTTP Request", fields...)
		default:
			logger.Info("HTTP Request", fields...)
		}

		for _, e := range c.Errors {
			logger.Error("Request Error",
				zap.String("error", e.Error()),
				zap.Any("type", e.Type),
			)
		}
	}
}
