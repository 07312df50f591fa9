package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// New - creates a new storage instance and connects to Redis.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
