// Package app wires configuration into a ready-to-use updater.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"object-updater/internal/api"
	"object-updater/internal/config"
	"object-updater/internal/memstore"
	"object-updater/internal/miniostore"
	"object-updater/internal/objectstore"
	"object-updater/internal/postgresdb"
	"object-updater/internal/redis"
	"object-updater/internal/s3"
	"object-updater/internal/uploader"
	"object-updater/internal/valkeydb"
)

type App struct {
	Updater api.Updater

	closers []func()
}

// Build connects every backend named in cfg. On error, anything already
// opened is closed before returning.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	store, err := newStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	opts := []uploader.Option{uploader.WithLogger(logger)}

	if cfg.DatabaseURL != "" {
		db, err := postgresdb.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		if err := db.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		opts = append(opts, uploader.WithRecorder(db))
		logger.Info().Msg("upload ledger enabled")
	}

	u, err := uploader.New(store, cfg.Store.Bucket, opts...)
	if err != nil {
		return nil, err
	}

	locker, err := a.newLocker(ctx, cfg.Lock)
	if err != nil {
		return nil, err
	}

	if locker == nil {
		a.Updater = u
	} else {
		a.Updater = uploader.NewSerialized(u, locker, cfg.Lock.TTL)
		logger.Info().Str("backend", cfg.Lock.Backend).Dur("ttl", cfg.Lock.TTL).Msg("per-key locking enabled")
	}

	logger.Info().
		Str("backend", cfg.Store.Backend).
		Str("bucket", cfg.Store.Bucket).
		Msg("object store initialized")

	return a, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newStore(ctx context.Context, conf config.StoreConfig) (objectstore.FileStorer, error) {
	switch conf.Backend {
	case config.BackendS3:
		store, err := s3.NewFileStore(ctx, s3.S3Config{
			EndpointURL:  conf.EndpointURL,
			Region:       conf.Region,
			AccessKey:    conf.AccessKey,
			SecretKey:    conf.SecretKey,
			UsePathStyle: conf.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create S3 filestore: %w", err)
		}
		return store, nil

	case config.BackendMinio:
		store, err := miniostore.New(miniostore.Config{
			Endpoint:  conf.EndpointURL,
			AccessKey: conf.AccessKey,
			SecretKey: conf.SecretKey,
			Region:    conf.Region,
			UseSSL:    conf.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create minio filestore: %w", err)
		}
		return store, nil

	case config.BackendMemory:
		return memstore.New(), nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", conf.Backend)
	}
}

func (a *App) newLocker(ctx context.Context, conf config.LockConfig) (uploader.Locker, error) {
	switch conf.Backend {
	case config.LockValkey:
		client, err := valkeydb.New(ctx, conf.ValkeyURL, conf.ValkeyPassword)
		if err != nil {
			return nil, fmt.Errorf("valkey: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return client, nil

	case config.LockRedis:
		client, err := redis.New(ctx, conf.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return client, nil

	case config.LockNone, "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported lock backend %q", conf.Backend)
	}
}
