package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bassista/tzcache/internal/fetcher"
	"github.com/bassista/tzcache/internal/logger"
	"github.com/bassista/tzcache/internal/timezone"
)

// Refresher is implemented by fetcher.Fetcher.
type Refresher interface {
	Refresh(ctx context.Context) (timezone.CacheState, error)
}

// RunStatus describes the outcome of the last scheduled refresh.
type RunStatus struct {
	LastRun time.Time
	LastErr error
	Runs    int
}

// RefreshScheduler refreshes the timezones cache on a fixed interval.
// A tick that finds a refresh already in flight is skipped.
type RefreshScheduler struct {
	refresher Refresher
	interval  time.Duration

	mu     sync.Mutex
	status RunStatus
}

func NewRefreshScheduler(refresher Refresher, interval time.Duration) *RefreshScheduler {
	return &RefreshScheduler{
		refresher: refresher,
		interval:  interval,
	}
}

// Start runs the ticker loop until ctx is done. When refreshOnStart is set,
// one refresh runs before the first tick.
// Returns a channel that is closed when the loop has stopped.
func (s *RefreshScheduler) Start(ctx context.Context, refreshOnStart bool) <-chan struct{} {
	done := make(chan struct{})
	logger.WithComponent("refresh").Debugf("starting refresh scheduler with interval: %v", s.interval)
	ticker := time.NewTicker(s.interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		if refreshOnStart {
			s.tick(ctx)
		}
		for {
			select {
			case <-ctx.Done():
				logger.WithComponent("refresh").Info("refresh scheduler stopped")
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
	return done
}

// Status returns the outcome of the last refresh run by the scheduler.
func (s *RefreshScheduler) Status() RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *RefreshScheduler) tick(ctx context.Context) {
	_, err := s.refresher.Refresh(ctx)
	if errors.Is(err, fetcher.ErrRefreshInFlight) {
		logger.WithComponent("refresh").Debugf("refresh already in flight, skipping tick")
		return
	}

	s.mu.Lock()
	s.status = RunStatus{LastRun: time.Now(), LastErr: err, Runs: s.status.Runs + 1}
	s.mu.Unlock()

	if err != nil {
		logger.WithComponent("refresh").Errorf("scheduled refresh failed: %v", err)
	}
}
