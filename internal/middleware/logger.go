package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"yatube/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RequestLogger 每个请求一条日志，同时记录 prometheus 指标
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPLatency.WithLabelValues(c.Request.Method, route).Observe(duration.Seconds())

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", duration,
			"user_id", c.GetUint64(ContextUserIDKey),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
			logger.Error("request", attrs...)
			return
		}
		logger.Info("request", attrs...)
	}
}
