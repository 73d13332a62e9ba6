package repository

import (
	"fmt"

	"github.com/bassista/tzcache/internal/config"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// NewRepositoryFromConfig creates a Repository for the configured backend.
// An empty backend means "file".
func NewRepositoryFromConfig(cfg config.DataConfig) (Repository, error) {
	switch cfg.Backend {
	case BackendFile, "":
		repo, err := NewJSONRepository(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case BackendRedis:
		repo, err := NewRedisRepository(cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown data backend: %s (supported: %s, %s)", cfg.Backend, BackendFile, BackendRedis)
	}
}
