package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/bassista/tzcache/internal/cache"
	"github.com/bassista/tzcache/internal/fetcher"
	"github.com/bassista/tzcache/internal/logger"
	"github.com/bassista/tzcache/internal/scheduler"
	"github.com/bassista/tzcache/internal/timezone"
	"github.com/gin-gonic/gin"
)

// Refresher is implemented by fetcher.Fetcher.
type Refresher interface {
	Refresh(ctx context.Context) (timezone.CacheState, error)
}

// RunStatusReporter is implemented by scheduler.RefreshScheduler.
type RunStatusReporter interface {
	Status() scheduler.RunStatus
}

// OffsetsResponse lists the distinct offsets in minutes and as "+HH:MM".
type OffsetsResponse struct {
	RawOffsets []int    `json:"rawOffsets"`
	Formatted  []string `json:"formatted"`
}

// StatusResponse describes the cache freshness.
type StatusResponse struct {
	Requesting       bool   `json:"requesting"`
	LastUpdate       int64  `json:"lastUpdate"`
	Continents       int    `json:"continents"`
	Entries          int    `json:"entries"`
	ScheduledRuns    int    `json:"scheduledRuns"`
	LastRefresh      int64  `json:"lastRefresh,omitempty"`
	LastRefreshError string `json:"lastRefreshError,omitempty"`
}

type TimezoneController struct {
	store     cache.ReadOnlyStore
	refresher Refresher
	runs      RunStatusReporter
}

// NewTimezoneController creates a TimezoneController. runs may be nil.
func NewTimezoneController(store cache.ReadOnlyStore, refresher Refresher, runs RunStatusReporter) *TimezoneController {
	return &TimezoneController{
		store:     store,
		refresher: refresher,
		runs:      runs,
	}
}

// GetTimezones returns the cached timezones.
func (tc *TimezoneController) GetTimezones(c *gin.Context) {
	c.JSON(http.StatusOK, tc.store.Snapshot())
}

// GetOffsets returns the distinct offsets, ascending.
func (tc *TimezoneController) GetOffsets(c *gin.Context) {
	items := tc.store.Snapshot()
	formatted := make([]string, 0, len(items.RawOffsets))
	for _, offset := range items.RawOffsets {
		formatted = append(formatted, timezone.FormatOffset(offset))
	}
	c.JSON(http.StatusOK, OffsetsResponse{RawOffsets: items.RawOffsets, Formatted: formatted})
}

// GetContinent returns the entries of one continent.
func (tc *TimezoneController) GetContinent(c *gin.Context) {
	continent := c.Param("continent")
	group, ok := tc.store.Snapshot().TimezonesByContinent[continent]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "continent not found"})
		return
	}
	c.JSON(http.StatusOK, group)
}

// GetStatus reports whether a refresh is in flight and when the cache was last persisted or restored.
func (tc *TimezoneController) GetStatus(c *gin.Context) {
	items := tc.store.Snapshot()
	resp := StatusResponse{
		Requesting: tc.store.Requesting(),
		LastUpdate: tc.store.GetLastUpdate(),
		Continents: items.Continents(),
		Entries:    items.Entries(),
	}
	if tc.runs != nil {
		status := tc.runs.Status()
		resp.ScheduledRuns = status.Runs
		if !status.LastRun.IsZero() {
			resp.LastRefresh = status.LastRun.UnixMilli()
		}
		if status.LastErr != nil {
			resp.LastRefreshError = status.LastErr.Error()
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh fetches the upstream payload now.
func (tc *TimezoneController) Refresh(c *gin.Context) {
	items, err := tc.refresher.Refresh(c.Request.Context())
	if errors.Is(err, fetcher.ErrRefreshInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.WithComponent("timezone_controller").Errorf("manual refresh failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}
