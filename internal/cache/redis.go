package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dialTimeout = 5 * time.Second

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings the server before returning.
func NewRedisClient(ctx context.Context, opts RedisOptions, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		logger.Error("Failed to connect to Redis", zap.String("address", opts.Addr), zap.Error(err))
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	logger.Info("Successfully connected to Redis", zap.String("address", opts.Addr))
	return rdb, nil
}

// RedisRepository implements Repository on a redis client.
type RedisRepository struct {
	client redis.Cmdable
	logger *zap.Logger
}

func NewRedisRepository(client redis.Cmdable, logger *zap.Logger) *RedisRepository {
	return &RedisRepository{client: client, logger: logger.Named("RedisCache")}
}

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		r.logger.Error("Redis Get operation failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, nil
}

func (r *RedisRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Redis Set operation failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	r.logger.Debug("Redis Set operation successful", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Redis Del operation failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}
