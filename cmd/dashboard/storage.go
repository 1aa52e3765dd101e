package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-feeding-dashboard/internal/application/session"
	"github.com/go-feeding-dashboard/internal/config"
	"github.com/go-feeding-dashboard/internal/infrastructure/dynamo"
	"github.com/go-feeding-dashboard/internal/infrastructure/kv"
	redisinfra "github.com/go-feeding-dashboard/internal/infrastructure/redis"
	goredis "github.com/redis/go-redis/v9"
)

// openStorage builds the session storage selected by cfg.StorageDriver.
// The returned func releases any connection it opened.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Storage, func(), error) {
	noop := func() {}
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return kv.NewMemory(), noop, nil

	case config.StorageFile:
		return kv.NewFile(cfg.StoragePath, logger), noop, nil

	case config.StorageDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		return dynamo.NewKV(client, cfg.DynamoTables.Sessions, cfg.InstanceID), noop, nil

	case config.StorageRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		closer := func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close error", "err", err)
			}
		}
		return redisinfra.NewKV(client, cfg.InstanceID), closer, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
