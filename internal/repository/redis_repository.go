package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisKeyPrefix = "tzcache:"
	snapshotKey           = "snapshot"
)

// RedisRepository keeps the snapshot document as a single JSON string in Redis.
type RedisRepository struct {
	client    *redis.Client
	key       string
	validator *validator.Validate
}

// NewRedisRepository connects to url and checks the connection.
func NewRedisRepository(url, keyPrefix string) (*RedisRepository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisRepositoryFromClient(client, keyPrefix), nil
}

// NewRedisRepositoryFromClient wraps an existing client.
func NewRedisRepositoryFromClient(client *redis.Client, keyPrefix string) *RedisRepository {
	if keyPrefix == "" {
		keyPrefix = defaultRedisKeyPrefix
	}
	return &RedisRepository{
		client:    client,
		key:       keyPrefix + snapshotKey,
		validator: validator.New(),
	}
}

// Load reads the snapshot document from Redis.
func (r *RedisRepository) Load(ctx context.Context) (*SnapshotDocument, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var doc SnapshotDocument
	if err := json.Unmarshal(val, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := r.validator.Struct(&doc); err != nil {
		return nil, fmt.Errorf("validate snapshot: %w", err)
	}
	return &doc, nil
}

// Save validates doc and stores it without expiration.
func (r *RedisRepository) Save(ctx context.Context, doc *SnapshotDocument) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	if err := r.validator.Struct(doc); err != nil {
		return fmt.Errorf("validate before save: %w", err)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

var _ Repository = (*RedisRepository)(nil)
