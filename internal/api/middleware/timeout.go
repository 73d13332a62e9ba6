package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bassista/tzcache/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestTimeout sets a per-request context deadline.
// Handlers are not interrupted; they must honor ctx.Done().
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// a response already written cannot be replaced
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			logger.WithComponent("http").Warnf("request timed out after %v: %s %s", d, c.Request.Method, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "request timeout",
			})
		}
	}
}
