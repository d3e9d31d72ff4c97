package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/consultora/consulting-tracker/internal/domain"
	"github.com/consultora/consulting-tracker/pkg/logger"
)

// Key prefixes for the cached entities
const (
	keyPrefixProject = "project:"
)

// RedisRepository implements the read-through cache backed by Redis
type RedisRepository struct {
	client *redis.Client
	logger logger.Logger
	ttl    time.Duration
}

// NewRedisRepository creates a new RedisRepository instance
func NewRedisRepository(client *redis.Client, logger logger.Logger, ttl time.Duration) *RedisRepository {
	return &RedisRepository{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// GetProject returns a cached project or domain.ErrNotFound
func (r *RedisRepository) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	key := keyPrefixProject + id
	var project domain.Project
	if err := r.getValue(ctx, key, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// SetProject stores a project in the cache
func (r *RedisRepository) SetProject(ctx context.Context, project *domain.Project) error {
	key := keyPrefixProject + project.ID
	return r.cacheValue(ctx, key, project)
}

// InvalidateProject drops a project from the cache
func (r *RedisRepository) InvalidateProject(ctx context.Context, id string) error {
	key := keyPrefixProject + id
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to invalidate cache key", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to invalidate cache key %s: %w", key, err)
	}
	return nil
}

// cacheValue stores a JSON-encoded value in the cache
func (r *RedisRepository) cacheValue(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache key", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}

	return nil
}

// getValue reads a JSON-encoded value from the cache
func (r *RedisRepository) getValue(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		r.logger.Error("Failed to get cache key", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value for key %s: %w", key, err)
	}

	return nil
}
