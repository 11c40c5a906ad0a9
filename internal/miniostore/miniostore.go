// Package miniostore implements objectstore.FileStorer with minio-go for
// MinIO and other S3-compatible stores.
package miniostore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"object-updater/internal/objectstore"
)

type Config struct {
	// Endpoint is host[:port] or a URL; a URL scheme overrides UseSSL.
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

type FileStore struct {
	client *minio.Client
}

func New(conf Config) (*FileStore, error) {
	if conf.Endpoint == "" {
		return nil, errors.New("minio endpoint is required")
	}

	host, secure, err := splitEndpoint(conf.Endpoint, conf.UseSSL)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: secure,
		Region: conf.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &FileStore{client: client}, nil
}

// Upload buffers body so the object size is known up front and PutObject
// sends a single request.
func (fs *FileStore) Upload(ctx context.Context, body io.Reader, bucket, key, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read upload body: %w", err)
	}

	_, err = fs.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	return nil
}

func (fs *FileStore) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := fs.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateError(err)
	}
	defer func() {
		_ = obj.Close()
	}()

	// GetObject is lazy; errors such as NoSuchKey surface on first read
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translateError(err)
	}

	return data, nil
}

func translateError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return fmt.Errorf("failed to download file: %w", objectstore.ErrObjectNotFound)
	default:
		return fmt.Errorf("failed to download file: %w", err)
	}
}

func splitEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		// plain host:port
		return endpoint, useSSL, nil
	}

	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("unsupported minio endpoint scheme %q", u.Scheme)
	}
}
