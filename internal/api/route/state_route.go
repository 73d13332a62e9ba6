package route

import (
	"time"

	"github.com/bassista/tzcache/internal/api/controller"
	"github.com/bassista/tzcache/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

func NewStateRouter(timeout time.Duration, group *gin.RouterGroup, store controller.StateStore) {
	sc := controller.NewStateController(store)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	group.GET("state", timeoutMiddleware, sc.GetState)
	group.POST("state/events/:tag", timeoutMiddleware, sc.DispatchEvent)
}
