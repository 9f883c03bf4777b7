package cache

import (
	"context"
	"fmt"
	"time"

	"study-buddy/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings. A blank address is an error; callers
// decide whether redis is optional.
func NewRedisClient(ctx context.Context, redisCfg config.RedisConfig) (*redis.Client, error) {
	if redisCfg.Address == "" {
		return nil, fmt.Errorf("redis configuration is missing or address is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:        redisCfg.Address,
		Password:    redisCfg.Password,
		DB:          redisCfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", redisCfg.Address, err)
	}
	return client, nil
}
