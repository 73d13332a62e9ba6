package repository

import (
	"context"
	"errors"

	"github.com/bassista/tzcache/internal/timezone"
)

// ErrSnapshotNotFound is returned by Load when nothing has been persisted yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Saver persists a SnapshotDocument.
// Small interface used by background jobs like the persistence scheduler.
type Saver interface {
	Save(ctx context.Context, doc *SnapshotDocument) error
}

// Loader reads the last persisted SnapshotDocument.
type Loader interface {
	Load(ctx context.Context) (*SnapshotDocument, error)
}

// Repository abstracts snapshot persistence.
// JSONRepository and RedisRepository implement this interface.
type Repository interface {
	Saver
	Loader
}

// Watcher is implemented by backends that can notice out-of-band snapshot changes.
type Watcher interface {
	StartWatcher(ctx context.Context, cacheStore CacheStore) error
}

// CacheStore defines the cache operations needed by the watcher callback.
type CacheStore interface {
	GetLastUpdate() int64
	IsDirty() bool
	Snapshot() timezone.CacheState
	Restore(candidate any, lastUpdate int64) bool
}
