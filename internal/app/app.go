package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bassista/tzcache/internal/cache"
	"github.com/bassista/tzcache/internal/config"
	"github.com/bassista/tzcache/internal/locale"
	"github.com/bassista/tzcache/internal/logger"
	"github.com/bassista/tzcache/internal/repository"
	"github.com/bassista/tzcache/internal/scheduler"
)

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config    *config.Config
	Repo      repository.Repository
	Cache     cache.AppStore
	Refresher scheduler.Refresher
	Scheduler *scheduler.RefreshScheduler
	Catalog   *locale.Catalog

	BaseCtx context.Context
	Cancel  context.CancelFunc

	done      []<-chan struct{}
	closeRepo sync.Once
}

func New(cfg *config.Config, repo repository.Repository, store cache.AppStore, refresher scheduler.Refresher) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if repo == nil {
		return nil, errors.New("repo is nil")
	}
	if store == nil {
		return nil, errors.New("cache store is nil")
	}
	if refresher == nil {
		return nil, errors.New("refresher is nil")
	}

	languages := make([]locale.Language, 0, len(cfg.Locale.Languages))
	for _, lang := range cfg.Locale.Languages {
		languages = append(languages, locale.Language{Slug: lang.Slug, Name: lang.Name})
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:    cfg,
		Repo:      repo,
		Cache:     store,
		Refresher: refresher,
		Scheduler: scheduler.NewRefreshScheduler(refresher, cfg.Upstream.RefreshInterval),
		Catalog:   locale.NewCatalog(languages),
		BaseCtx:   ctx,
		Cancel:    cancel,
	}, nil
}

// LoadSnapshot restores the last persisted snapshot into the cache.
// A missing snapshot leaves the cache empty.
func (a *App) LoadSnapshot(ctx context.Context) error {
	doc, err := a.Repo.Load(ctx)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		logger.WithComponent("main").Info("no persisted snapshot found, starting with an empty cache")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	if a.Cache.Restore(doc.Items, doc.Metadata.LastUpdate) {
		logger.WithComponent("main").Infof("restored snapshot from %d", doc.Metadata.LastUpdate)
	}
	return nil
}

// Shutdown cancels the lifecycle context and waits for the background jobs,
// including the final persistence flush. Then it closes the repository when
// the backend holds a connection.
func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
	for _, done := range a.done {
		<-done
	}
	a.done = nil

	a.closeRepo.Do(func() {
		closer, ok := a.Repo.(io.Closer)
		if !ok {
			return
		}
		if err := closer.Close(); err != nil {
			logger.WithComponent("main").Warnf("closing repository: %v", err)
		}
	})
}

// StartWatchers starts the repository watcher when the backend supports one,
// the persistence scheduler and the refresh scheduler.
func (a *App) StartWatchers() error {
	if watcher, ok := a.Repo.(repository.Watcher); ok {
		if err := watcher.StartWatcher(a.BaseCtx, a.Cache); err != nil {
			return fmt.Errorf("cannot start snapshot watcher: %w", err)
		}
	} else {
		logger.WithComponent("main").Debugf("repository %T does not support watching", a.Repo)
	}

	a.done = append(a.done,
		cache.StartPersistenceScheduler(a.BaseCtx, a.Cache, a.Repo, a.Config.Data.PersistInterval),
		a.Scheduler.Start(a.BaseCtx, a.Config.Upstream.RefreshOnStart),
	)
	return nil
}
