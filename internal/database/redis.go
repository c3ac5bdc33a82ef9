package database

import (
	"context"
	"time"

	"bakery-api/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedis connects to Redis when an address is configured. It returns nil
// when Redis is not configured or unreachable; callers treat nil as "rate
// limiting disabled".
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not set; rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Unable to reach redis; rate limiting disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}

	logger.Info("Connected to redis", zap.String("addr", cfg.Addr))
	return client
}
