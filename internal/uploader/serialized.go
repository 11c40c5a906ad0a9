package uploader

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"object-updater/internal/models"
)

// Locker hands out named locks shared by every process using the same
// backend. release must be safe to call after the lock has expired.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, err error)
}

// Serialized runs Update under a distributed per-key lock so that concurrent
// writers across processes do not both decide to write the same key.
type Serialized struct {
	uploader *Uploader
	locker   Locker
	ttl      time.Duration
	logger   zerolog.Logger
}

func NewSerialized(u *Uploader, locker Locker, ttl time.Duration) *Serialized {
	return &Serialized{
		uploader: u,
		locker:   locker,
		ttl:      ttl,
		logger:   u.logger,
	}
}

func (s *Serialized) Bucket() string {
	return s.uploader.Bucket()
}

func (s *Serialized) Update(ctx context.Context, payload []byte, key string, contentType models.ContentType) (bool, error) {
	name := LockName(s.uploader.Bucket(), key)

	release, err := s.locker.Acquire(ctx, name, s.ttl)
	if err != nil {
		return false, fmt.Errorf("failed to lock %s: %w", name, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn().Err(err).Str("lock", name).Msg("failed to release lock")
		}
	}()

	return s.uploader.Update(ctx, payload, key, contentType)
}

func LockName(bucket, key string) string {
	return "lock:" + bucket + "/" + key
}
