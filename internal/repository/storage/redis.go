package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// New dials Redis and verifies the connection before handing it out.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := conn.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return conn, nil
}
