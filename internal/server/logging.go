package server

import (
	"time"

	"fitclub/internal/auth"
	"fitclub/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLoggingMiddleware writes one structured line per request. Server
// errors log at error level, client errors at warn.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if id, ok := auth.GetMemberID(c); ok {
			kv = append(kv, "member_id", id.String())
		}

		switch {
		case status >= 500:
			logger.Error("HTTP request", kv...)
		case status >= 400:
			logger.Warn("HTTP request", kv...)
		default:
			logger.Info("HTTP request", kv...)
		}
	}
}
