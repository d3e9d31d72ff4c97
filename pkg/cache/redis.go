package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/consultora/consulting-tracker/pkg/config"
	"github.com/consultora/consulting-tracker/pkg/logger"
)

// Redis represents a Redis client
type Redis struct {
	Client *redis.Client
	Config *config.RedisConfig
	Logger logger.Logger
}

// NewRedis creates a new Redis connection
func NewRedis(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*Redis, error) {
	log.Info("Connecting to Redis", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info("Successfully connected to Redis")

	return &Redis{
		Client: client,
		Config: cfg,
		Logger: log,
	}, nil
}

// Close closes the Redis connection
func (r *Redis) Close() error {
	r.Logger.Info("Closing Redis connection")
	return r.Client.Close()
}

// Set stores a value in the cache
func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.Config.DefaultTTL
	}

	err := r.Client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.Logger.Error("Failed to set Redis key", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to set Redis key %s: %w", key, err)
	}

	return nil
}

// Get reads a value from the cache
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", err
		}
		r.Logger.Error("Failed to get Redis key", err, map[string]interface{}{
			"key": key,
		})
		return "", fmt.Errorf("failed to get Redis key %s: %w", key, err)
	}
	return value, nil
}

// Delete removes keys from the cache
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := r.Client.Del(ctx, keys...).Err(); err != nil {
		r.Logger.Error("Failed to delete Redis keys", err, map[string]interface{}{
			"keys": keys,
		})
		return fmt.Errorf("failed to delete Redis keys: %w", err)
	}
	return nil
}
