package cache

import (
	"context"
	"fmt"
	"log/slog"

	"inventory_api/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// ConnectRedis opens the Redis client when REDIS_ADDR is set. It leaves RDB
// nil otherwise, and callers fall back to an uncached path.
func ConnectRedis(ctx context.Context) error {
	if config.AppConfig.RedisAddr == "" {
		slog.InfoContext(ctx, "REDIS_ADDR not set, category cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("could not connect to Redis: %w", err)
	}

	RDB = client
	slog.InfoContext(ctx, "connected to Redis", "addr", config.AppConfig.RedisAddr)
	return nil
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		slog.Info("redis connection closed")
	}
}
