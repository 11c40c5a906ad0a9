package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "kenkoooo.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendS3, cfg.Store.Backend)
	assert.Equal(t, "ap-northeast-1", cfg.Store.Region)
	assert.Equal(t, LockNone, cfg.Lock.Backend)
	assert.Equal(t, 30*time.Second, cfg.Lock.TTL)
	assert.Equal(t, int64(64<<20), cfg.MaxBodyBytes)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "objects")
	t.Setenv("STORE_BACKEND", "minio")
	t.Setenv("S3_ENDPOINT_URL", "http://localhost:9000")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("LOCK_BACKEND", "valkey")
	t.Setenv("VALKEY_URL", "localhost:6379")
	t.Setenv("LOCK_TTL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMinio, cfg.Store.Backend)
	assert.True(t, cfg.Store.UsePathStyle)
	assert.Equal(t, LockValkey, cfg.Lock.Backend)
	assert.Equal(t, 5*time.Second, cfg.Lock.TTL)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			MaxBodyBytes: 1 << 20,
			Store:        StoreConfig{Backend: BackendS3, Bucket: "bucket"},
			Lock:         LockConfig{Backend: LockNone, TTL: time.Second},
		}
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing bucket", mutate: func(c *Config) { c.Store.Bucket = "" }, wantErr: "S3_BUCKET_NAME"},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "gcs" }, wantErr: "unsupported STORE_BACKEND"},
		{name: "minio without endpoint", mutate: func(c *Config) { c.Store.Backend = BackendMinio }, wantErr: "S3_ENDPOINT_URL"},
		{name: "valkey without url", mutate: func(c *Config) { c.Lock.Backend = LockValkey }, wantErr: "VALKEY_URL"},
		{name: "redis without url", mutate: func(c *Config) { c.Lock.Backend = LockRedis }, wantErr: "REDIS_URL"},
		{name: "unknown lock", mutate: func(c *Config) { c.Lock.Backend = "etcd" }, wantErr: "unsupported LOCK_BACKEND"},
		{name: "zero body cap", mutate: func(c *Config) { c.MaxBodyBytes = 0 }, wantErr: "MAX_BODY_BYTES"},
		{name: "zero ttl", mutate: func(c *Config) {
			c.Lock.Backend = LockRedis
			c.Lock.RedisURL = "redis://localhost:6379"
			c.Lock.TTL = 0
		}, wantErr: "LOCK_TTL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
