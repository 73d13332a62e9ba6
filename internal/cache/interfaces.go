package cache

import (
	"github.com/bassista/tzcache/internal/repository"
	"github.com/bassista/tzcache/internal/state"
	"github.com/bassista/tzcache/internal/timezone"
)

// ReadOnlyStore is the minimal cache API for read-only controllers.
type ReadOnlyStore interface {
	Snapshot() timezone.CacheState
	State() state.State
	Requesting() bool
	GetLastUpdate() int64
}

// Dispatcher is the cache API needed by the fetcher.
type Dispatcher interface {
	Dispatch(ev state.Event) state.State
	Requesting() bool
}

// PersistableStore is the cache API needed by the persistence scheduler.
type PersistableStore interface {
	IsDirty() bool
	SnapshotVersion() (timezone.CacheState, uint64)
	ClearDirtyIf(generation uint64) bool
	SetLastUpdate(ts int64)
}

// AppStore is the cache contract the application container exposes.
// It supports controllers, the fetcher, the persistence scheduler and the repository watcher.
type AppStore interface {
	repository.CacheStore
	ReadOnlyStore
	Dispatcher
	PersistableStore
}
