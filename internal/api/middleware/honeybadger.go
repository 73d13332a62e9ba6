package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/bassista/tzcache/internal/logger"
	"github.com/gin-gonic/gin"
	honeybadger "github.com/honeybadger-io/honeybadger-go"
)

// HoneybadgerMiddleware reports panics and error responses to Honeybadger.
// With an empty apiKey it is a pass-through. On panic it notifies and re-panics
// so gin.Recovery writes the response.
func HoneybadgerMiddleware(apiKey, env string) gin.HandlerFunc {
	log := logger.WithComponent("http")
	if apiKey == "" {
		log.Info("Honeybadger is not active. Set misc.honeybadger_api_key to enable error reporting.")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	honeybadger.Configure(honeybadger.Configuration{
		APIKey: apiKey,
		Env:    env,
	})
	log.Info("Honeybadger error reporting is enabled.")

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				honeybadger.Notify(fmt.Sprintf("Panic: %s %s", c.Request.Method, c.Request.URL.Path),
					c.Request, honeybadger.Context{"stack": string(debug.Stack())}, honeybadger.Tags{"panic", "http"})
				log.Error("Recovered from panic, notified Honeybadger: ", rec)
				panic(rec)
			}
		}()

		c.Next()

		status := c.Writer.Status()
		if status < 400 || status == 404 {
			return
		}
		if status >= 500 {
			honeybadger.Notify(fmt.Sprintf("Error: HTTP %d: %s %s", status, c.Request.Method, c.Request.URL.Path),
				c.Request, honeybadger.Tags{"5XX", "http"})
		} else {
			honeybadger.Notify(fmt.Sprintf("Warning: HTTP %d: %s %s", status, c.Request.Method, c.Request.URL.Path),
				honeybadger.Tags{"4XX", "http"})
		}
		log.Warnf("Honeybadger reported HTTP %d for %s %s", status, c.Request.Method, c.Request.URL.Path)
	}
}
