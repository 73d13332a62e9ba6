package route

import (
	"time"

	"github.com/bassista/tzcache/internal/api/controller"
	"github.com/bassista/tzcache/internal/api/middleware"
	"github.com/bassista/tzcache/internal/cache"
	"github.com/gin-gonic/gin"
)

// NewTimezoneRouter registers the timezone routes. The refresh route is bound
// by the upstream timeout instead of the request timeout.
func NewTimezoneRouter(timeout time.Duration, group *gin.RouterGroup, store cache.ReadOnlyStore, refresher controller.Refresher, runs controller.RunStatusReporter) {
	tc := controller.NewTimezoneController(store, refresher, runs)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	group.GET("timezones", timeoutMiddleware, tc.GetTimezones)
	group.GET("timezones/offsets", timeoutMiddleware, tc.GetOffsets)
	group.GET("timezones/status", timeoutMiddleware, tc.GetStatus)
	group.GET("timezones/continents/:continent", timeoutMiddleware, tc.GetContinent)
	group.POST("timezones/refresh", tc.Refresh)
}
