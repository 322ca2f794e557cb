package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bayarcash-backend/internal/config"
	"bayarcash-backend/pkg/logger"
)

const (
	connectAttempts = 3
	pingTimeout     = 2 * time.Second
)

// RedisClient backs the order locks, the sweep lease and the token ledger.
type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg config.RedisConfig) *RedisClient {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:         cfg.Host,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     poolSize,
			MinIdleConns: poolSize / 2,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
	}
}

// Connect pings until Redis answers, backing off between attempts.
func (r *RedisClient) Connect(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if lastErr = r.ping(ctx); lastErr == nil {
			opts := r.Client.Options()
			logger.Info("Redis connected", map[string]interface{}{
				"addr":      opts.Addr,
				"db":        opts.DB,
				"pool_size": opts.PoolSize,
			})
			return nil
		}

		logger.Warn("Redis not ready", map[string]interface{}{
			"attempt": attempt,
			"error":   lastErr.Error(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return fmt.Errorf("failed to connect to redis after %d attempts: %w", connectAttempts, lastErr)
}

func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.ping(ctx)
}

func (r *RedisClient) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		stats := r.Client.PoolStats()
		return fmt.Errorf("redis ping failed (total_conns=%d, timeouts=%d): %w", stats.TotalConns, stats.Timeouts, err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
