package cache

import (
	"context"
	"time"

	"github.com/bassista/tzcache/internal/logger"
	"github.com/bassista/tzcache/internal/repository"
)

// StartPersistenceScheduler runs a goroutine that periodically flushes a dirty cache.
// On ctx.Done, it performs a final flush before returning.
// Returns a channel that is closed when the scheduler has completed shutdown.
func StartPersistenceScheduler(
	ctx context.Context,
	store PersistableStore,
	repo repository.Saver,
	interval time.Duration,
) <-chan struct{} {
	done := make(chan struct{})
	logger.WithComponent("persist").Debugf("starting persistence scheduler with interval: %v", interval)
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.WithComponent("persist").Debugf("persistence scheduler received context cancellation, performing final flush")
				// the caller's ctx is already done
				flushCache(context.Background(), store, repo)
				logger.WithComponent("persist").Info("persistence scheduler stopped after final flush")
				return
			case <-ticker.C:
				flushCache(ctx, store, repo)
			}
		}
	}()
	return done
}

// flushCache saves the items when dirty and stamps the store with the saved lastUpdate.
func flushCache(ctx context.Context, store PersistableStore, repo repository.Saver) {
	if !store.IsDirty() {
		logger.WithComponent("persist").Tracef("cache is clean, skipping flush")
		return
	}

	if err := ctx.Err(); err != nil {
		logger.WithComponent("persist").Debugf("flush cancelled: %v", err)
		return
	}

	items, generation := store.SnapshotVersion()
	doc, err := repository.NewSnapshotDocument(items, time.Now().UnixMilli())
	if err != nil {
		logger.WithComponent("persist").Errorf("persist error: failed to build snapshot: %v", err)
		return
	}

	if err := repo.Save(ctx, &doc); err != nil {
		logger.WithComponent("persist").Errorf("persist error: failed to save: %v", err)
		return
	}

	store.SetLastUpdate(doc.Metadata.LastUpdate)
	if !store.ClearDirtyIf(generation) {
		logger.WithComponent("persist").Debug("cache changed during save, keeping it dirty")
		return
	}
	logger.WithState("persist", items.Continents(), items.Entries()).Info("cache persisted")
}
