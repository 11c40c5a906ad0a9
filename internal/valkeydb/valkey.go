package valkeydb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	apperrors "object-updater/internal/errors"
)

// deletes the lock only while it still holds our token
var releaseScript = valkey.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type ValkeyClient struct {
	Client valkey.Client
}

func New(ctx context.Context, address string, password string) (*ValkeyClient, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		Password:    password,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create Valkey client: %w", err)
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping Valkey: %w", err)
	}

	return &ValkeyClient{Client: client}, nil
}

func (v *ValkeyClient) Close() {
	v.Client.Close()
}

// Acquire takes the named lock with SET NX PX. The returned release func
// only removes the lock if it has not expired and been taken by someone else.
func (v *ValkeyClient) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {

	token := uuid.NewString()

	cmd := v.Client.B().Set().
		Key(name).
		Value(token).
		Nx().
		PxMilliseconds(ttl.Milliseconds()).
		Build()

	if err := v.Client.Do(ctx, cmd).Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, fmt.Errorf("%s is held: %w", name, apperrors.ErrLockNotAcquired)
		}
		return nil, fmt.Errorf("unable to acquire lock (%s): %w", name, err)
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Exec(ctx, v.Client, []string{name}, []string{token}).Error(); err != nil {
			return fmt.Errorf("unable to release lock (%s): %w", name, err)
		}
		return nil
	}

	return release, nil
}
