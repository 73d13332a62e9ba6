package controller

import (
	"net/http"

	"github.com/bassista/tzcache/internal/cache"
	"github.com/bassista/tzcache/internal/logger"
	"github.com/bassista/tzcache/internal/state"
	"github.com/gin-gonic/gin"
)

// StateStore is the cache API needed by the state handlers.
type StateStore interface {
	cache.ReadOnlyStore
	cache.Dispatcher
}

type StateController struct {
	store StateStore
}

func NewStateController(store StateStore) *StateController {
	return &StateController{store: store}
}

// GetState returns the root state.
func (sc *StateController) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, sc.store.State())
}

// DispatchEvent applies a payload-less event given by its tag.
// Tags that need a payload or are not known are rejected.
func (sc *StateController) DispatchEvent(c *gin.Context) {
	tag := c.Param("tag")
	ev := state.ParseTag(tag)
	if _, unknown := ev.(state.Unknown); unknown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported event: " + tag})
		return
	}

	logger.WithComponent("state_controller").Infof("dispatching %s", tag)
	c.JSON(http.StatusOK, sc.store.Dispatch(ev))
}
