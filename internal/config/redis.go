package config

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var (
	rdb    *redis.Client
	locker *redislock.Client
)

// GetRedisDB returns the redis client, nil when redis is not configured
func GetRedisDB() *redis.Client {
	return rdb
}

// GetRedisLock returns the lock client, nil when redis is not configured
func GetRedisLock() *redislock.Client {
	return locker
}

// ConnectRedis connects the global redis and lock clients.
// Redis is optional: the claim review path falls back to the database guard alone.
func ConnectRedis(ctx context.Context, cfg *Config) error {
	if cfg.Redis.Address == "" {
		GetLogger().Info("REDIS_ADDRESS not set; review locks disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: 20,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return err
	}

	rdb = client
	locker = redislock.New(client)
	GetLogger().WithField("addr", cfg.Redis.Address).Info("✅ Redis connected")
	return nil
}

// CloseRedis closes the redis client
func CloseRedis() error {
	if rdb == nil {
		return nil
	}
	return rdb.Close()
}
