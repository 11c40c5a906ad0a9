package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "object-updater/internal/errors"
)

// deletes the lock only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisClient struct {
	Client *redis.Client
}

func New(ctx context.Context, connectionString string) (*RedisClient, error) {

	opt, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("could not parse redis connection string: %w", err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("unable to establish a connection to redis: %w", err)
	}

	return &RedisClient{Client: rdb}, nil
}

func (c *RedisClient) Close() error {
	return c.Client.Close()
}

func (c *RedisClient) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {

	token := uuid.NewString()

	err := c.Client.SetArgs(ctx, name, token, redis.SetArgs{Mode: "NX", TTL: ttl}).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s is held: %w", name, apperrors.ErrLockNotAcquired)
		}
		return nil, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, c.Client, []string{name}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock %s: %w", name, err)
		}
		return nil
	}

	return release, nil
}
