package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bassista/tzcache/internal/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
)

const watchDebounce = 200 * time.Millisecond

// JSONRepository handles disk persistence and watching of the snapshot file.
type JSONRepository struct {
	path      string
	dir       string
	base      string
	validator *validator.Validate
	mu        sync.Mutex
}

// NewJSONRepository creates a repository for the given JSON file path.
func NewJSONRepository(path string) (*JSONRepository, error) {
	if path == "" {
		return nil, errors.New("snapshot file path is required")
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == "" || dir == "." {
		dir = "."
	}

	return &JSONRepository{path: path, dir: dir, base: base, validator: validator.New()}, nil
}

// Load reads the snapshot file and validates the document envelope.
// The items payload is left for the cache to validate on restore.
func (r *JSONRepository) Load(ctx context.Context) (*SnapshotDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUnlocked()
}

// loadUnlocked reads the snapshot file without acquiring the lock (caller must hold it).
func (r *JSONRepository) loadUnlocked() (*SnapshotDocument, error) {
	file, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	var doc SnapshotDocument
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode snapshot file: %w", err)
	}

	if err := r.validator.Struct(&doc); err != nil {
		return nil, fmt.Errorf("validate snapshot file: %w", err)
	}

	return &doc, nil
}

// Save validates and writes the document atomically to disk.
func (r *JSONRepository) Save(ctx context.Context, doc *SnapshotDocument) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	if err := r.validator.Struct(doc); err != nil {
		return fmt.Errorf("validate before save: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveUnlocked(doc)
}

// saveUnlocked writes the document without acquiring the lock (caller must hold it).
func (r *JSONRepository) saveUnlocked(doc *SnapshotDocument) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(r.dir, r.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), r.path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}

	return nil
}

// StartWatcher reloads the cache when the snapshot file changes on disk.
// It watches the parent directory so temp+rename replacements are observed,
// filters events by basename and debounces bursts into a single reload.
// Cancel ctx to stop the goroutine and close the watcher.
func (r *JSONRepository) StartWatcher(ctx context.Context, cacheStore CacheStore) error {
	if cacheStore == nil {
		return errors.New("cache store is required")
	}
	onChange := r.MakeWatcherCallback(cacheStore)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		watcher.Close()
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		schedule := func() {
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, onChange)
		}

		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != r.base {
					continue
				}
				// Remove/Rename means the file is being replaced; the reload waits for the debounce.
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod|fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithComponent("repo").Warnf("watcher error: %v", err)
			}
		}
	}()

	return nil
}

// MakeWatcherCallback returns a callback that restores the cache from disk when
// the file holds a newer, different snapshot and the cache has nothing unsaved.
func (r *JSONRepository) MakeWatcherCallback(cacheStore CacheStore) func() {
	return func() {
		log := logger.WithComponent("repo")

		diskDoc, err := r.Load(context.Background())
		if err != nil {
			log.Warnf("watch reload failed: %v", err)
			return
		}
		cacheLastUpdate := cacheStore.GetLastUpdate()
		diskLastUpdate := diskDoc.Metadata.LastUpdate

		if diskLastUpdate < cacheLastUpdate {
			log.Debugf("disk snapshot is older than cache: disk=%d cache=%d", diskLastUpdate, cacheLastUpdate)
			return
		}

		if cacheStore.IsDirty() {
			// the cache will be flushed over the file soon anyway
			log.Warn("disk snapshot is newer but cache is dirty; skipping reload")
			return
		}

		if diskLastUpdate == cacheLastUpdate {
			current, err := NewSnapshotDocument(cacheStore.Snapshot(), cacheLastUpdate)
			if err != nil {
				log.Errorf("cache reload error: %v", err)
				return
			}
			if AreSnapshotsEqual(&current, diskDoc) {
				return
			}
		}

		if !cacheStore.Restore(diskDoc.Items, diskLastUpdate) {
			log.Warn("disk snapshot rejected; cache reset to empty")
			return
		}
		log.Info("cache reloaded from newer disk snapshot")
	}
}

var (
	_ Repository = (*JSONRepository)(nil)
	_ Watcher    = (*JSONRepository)(nil)
)
