package logger

import (
	"time"

	"fandomapp/internal/access"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin returns an access-log middleware writing one structured line per request.
func Gin(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if caller, ok := c.Get(access.ContextKey); ok {
			if cl, ok := caller.(access.Caller); ok && cl.Authenticated() {
				fields = append(fields, zap.Uint("caller_id", cl.UserID))
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}
