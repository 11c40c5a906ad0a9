package miniostore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"object-updater/internal/objectstore"
)

func TestSplitEndpoint(t *testing.T) {
	testCases := []struct {
		endpoint   string
		useSSL     bool
		wantHost   string
		wantSecure bool
		wantErr    bool
	}{
		{endpoint: "localhost:9000", useSSL: false, wantHost: "localhost:9000"},
		{endpoint: "minio.internal:9000", useSSL: true, wantHost: "minio.internal:9000", wantSecure: true},
		{endpoint: "http://localhost:9000", useSSL: true, wantHost: "localhost:9000"},
		{endpoint: "https://s3.example.com", wantHost: "s3.example.com", wantSecure: true},
		{endpoint: "ftp://s3.example.com", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.endpoint, func(t *testing.T) {
			host, secure, err := splitEndpoint(tc.endpoint, tc.useSSL)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantHost, host)
			assert.Equal(t, tc.wantSecure, secure)
		})
	}
}

func TestTranslateError(t *testing.T) {
	notFound := minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	assert.ErrorIs(t, translateError(notFound), objectstore.ErrObjectNotFound)

	denied := minio.ErrorResponse{Code: "AccessDenied", Message: "Access Denied."}
	err := translateError(denied)
	assert.False(t, errors.Is(err, objectstore.ErrObjectNotFound))
	assert.Contains(t, err.Error(), "Access Denied")
}

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func setUpMinio(t *testing.T) (*FileStore, string) {
	t.Helper()

	endpoint := os.Getenv("MINIO_ENDPOINT")
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	bucket := os.Getenv("MINIO_BUCKET")

	if endpoint == "" || accessKey == "" || secretKey == "" {
		t.Skip("MinIO configuration not set (MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY), skipping integration test")
	}
	if bucket == "" {
		bucket = "object-updater"
	}

	store, err := New(Config{Endpoint: endpoint, AccessKey: accessKey, SecretKey: secretKey, Region: "us-east-1"})
	require.NoError(t, err)

	return store, bucket
}

func TestRoundTrip(t *testing.T) {
	store, bucket := setUpMinio(t)
	ctx := context.Background()
	key := "test-objects/" + uuid.New().String() + ".png"

	require.NoError(t, store.Upload(ctx, bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}), bucket, key, "image/png"))

	body, err := store.Download(ctx, bucket, key)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, body)

	_, err = store.Download(ctx, bucket, "missing-"+uuid.New().String())
	assert.ErrorIs(t, err, objectstore.ErrObjectNotFound)
}
