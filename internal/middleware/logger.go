package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request, levelled by response status.
// Paths for which skip returns true are not logged.
func RequestLogger(logger *slog.Logger, skip func(path string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if skip != nil && skip(path) {
			return
		}

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"proto", c.Request.Proto,
			"status", status,
			"bytes_written", c.Writer.Size(),
			"duration", time.Since(start),
		}
		if u, ok := CurrentUser(c); ok {
			attrs = append(attrs, "user", u.Username)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error.message", c.Errors.String())
		}

		ctx := c.Request.Context()
		msg := http.StatusText(status)
		switch {
		case status >= 500:
			logger.ErrorContext(ctx, msg, attrs...)
		case status >= 400 && status != 499:
			logger.WarnContext(ctx, msg, attrs...)
		default:
			logger.InfoContext(ctx, msg, attrs...)
		}
	}
}
