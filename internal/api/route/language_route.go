package route

import (
	"time"

	"github.com/bassista/tzcache/internal/api/controller"
	"github.com/bassista/tzcache/internal/api/middleware"
	"github.com/bassista/tzcache/internal/locale"
	"github.com/gin-gonic/gin"
)

// NewLanguageRouter registers the language routes and the locale aware NoRoute handler.
func NewLanguageRouter(timeout time.Duration, r *gin.Engine, group *gin.RouterGroup, catalog *locale.Catalog) {
	lc := controller.NewLanguageController(catalog)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	group.GET("languages", timeoutMiddleware, lc.ListLanguages)
	group.GET("languages/:slug", timeoutMiddleware, lc.GetLanguage)
	group.GET("locale", timeoutMiddleware, lc.ResolveLocale)

	r.NoRoute(lc.NotFound)
}
