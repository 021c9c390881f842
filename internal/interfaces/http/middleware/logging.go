package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrc20-presale/presale-node/internal/shared/logger"
)

// RequestRecorder receives one observation per served request.
type RequestRecorder interface {
	HTTPRequest(method, path string, status int, elapsed time.Duration)
}

func Logger(log logger.Interface) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		args := []any{
			"method", param.Method,
			"path", param.Path,
			"status", param.StatusCode,
			"latency", param.Latency,
			"client_ip", param.ClientIP,
			"user_agent", param.Request.UserAgent(),
		}

		if param.ErrorMessage != "" {
			args = append(args, "error", param.ErrorMessage)
		}

		if param.StatusCode >= 500 {
			log.Errorw("HTTP request completed", args...)
		} else if param.StatusCode >= 400 {
			log.Warnw("HTTP request completed", args...)
		} else {
			log.Debugw("HTTP request completed", args...)
		}

		return ""
	})
}

// Metrics records every request under its route template so that addresses
// in the path do not become label values. Unmatched routes share one label.
func Metrics(recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		recorder.HTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
