package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"yatube/internal/cache"
	"yatube/internal/metrics"

	"github.com/gin-gonic/gin"
)

type bodyWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheKey 按访问者区分，导航栏里的登录状态不会串
func CacheKey(c *gin.Context) string {
	viewer := "anon"
	if id := c.GetUint64(ContextUserIDKey); id != 0 {
		viewer = strconv.FormatUint(id, 10)
	}
	return viewer + ":" + c.Request.URL.RequestURI()
}

// CachePage 缓存 GET 200 的响应，ttl 内返回完全相同的字节
func CachePage(store cache.PageCache, ttl time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := CacheKey(c)
		body, ok, err := store.Get(ctx, key)
		if err != nil {
			logger.Warn("page cache get failed", "key", key, "error", err)
		}
		if ok {
			metrics.CacheHit()
			c.Data(http.StatusOK, "text/html; charset=utf-8", body)
			c.Abort()
			return
		}
		metrics.CacheMiss()

		w := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() == http.StatusOK && !c.IsAborted() {
			if err := store.Set(ctx, key, w.buf.Bytes(), ttl); err != nil {
				logger.Warn("page cache set failed", "key", key, "error", err)
			}
		}
	}
}
