package route

import (
	"net/http"

	"github.com/bassista/tzcache/internal/api/middleware"
	"github.com/bassista/tzcache/internal/app"
	"github.com/gin-gonic/gin"
)

// SetupRoutes builds the engine with the middleware chain and all API routes.
func SetupRoutes(appCtx *app.App) *gin.Engine {
	r := gin.New()
	r.Use(middleware.HoneybadgerMiddleware(appCtx.Config.Misc.HoneybadgerAPIKey, appCtx.Config.Misc.Env))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(appCtx.Config.Server.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	apiRouter := r.Group("/api")
	timeout := appCtx.Config.Server.RequestTimeout

	NewTimezoneRouter(timeout, apiRouter, appCtx.Cache, appCtx.Refresher, appCtx.Scheduler)
	NewStateRouter(timeout, apiRouter, appCtx.Cache)
	NewLanguageRouter(timeout, r, apiRouter, appCtx.Catalog)
	NewConfigurationRouter(timeout, apiRouter, appCtx.Config)

	return r
}
