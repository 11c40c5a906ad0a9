// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	BackendS3     = "s3"
	BackendMinio  = "minio"
	BackendMemory = "memory"

	LockNone   = "none"
	LockValkey = "valkey"
	LockRedis  = "redis"
)

type Config struct {
	Port     string `env:"PORT" env-default:"8080"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	// json or console
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`
	// Upper bound on a single PUT body accepted by the API.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" env-default:"67108864"`

	Store StoreConfig
	Lock  LockConfig

	// DatabaseURL enables the upload audit ledger when set.
	DatabaseURL string `env:"DATABASE_URL"`
}

type StoreConfig struct {
	Backend      string `env:"STORE_BACKEND" env-default:"s3"`
	Bucket       string `env:"S3_BUCKET_NAME"`
	EndpointURL  string `env:"S3_ENDPOINT_URL"`
	Region       string `env:"S3_REGION" env-default:"ap-northeast-1"`
	AccessKey    string `env:"S3_ACCESS_KEY"`
	SecretKey    string `env:"S3_SECRET_KEY"`
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	MinioUseSSL  bool   `env:"MINIO_USE_SSL" env-default:"true"`
}

type LockConfig struct {
	Backend        string        `env:"LOCK_BACKEND" env-default:"none"`
	TTL            time.Duration `env:"LOCK_TTL" env-default:"30s"`
	ValkeyURL      string        `env:"VALKEY_URL"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	RedisURL       string        `env:"REDIS_URL"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Store.Bucket == "" {
		return errors.New("S3_BUCKET_NAME is not set")
	}

	switch c.Store.Backend {
	case BackendS3, BackendMemory:
	case BackendMinio:
		if c.Store.EndpointURL == "" {
			return errors.New("S3_ENDPOINT_URL is required for the minio backend")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (use s3, minio or memory)", c.Store.Backend)
	}

	switch c.Lock.Backend {
	case LockNone:
	case LockValkey:
		if c.Lock.ValkeyURL == "" {
			return errors.New("VALKEY_URL is required for the valkey lock backend")
		}
	case LockRedis:
		if c.Lock.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis lock backend")
		}
	default:
		return fmt.Errorf("unsupported LOCK_BACKEND %q (use none, valkey or redis)", c.Lock.Backend)
	}

	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}

	if c.Lock.Backend != LockNone && c.Lock.TTL <= 0 {
		return errors.New("LOCK_TTL must be positive")
	}

	return nil
}
