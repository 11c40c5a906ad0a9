package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is wrapped by store adapters when the store confirms the
// key does not exist. Any other Download error is a read failure.
var ErrObjectNotFound = errors.New("object not found")

// FileStorer is the object store capability the uploader consumes.
// An empty contentType on Upload means no content-type header is sent.
type FileStorer interface {
	Upload(ctx context.Context, body io.Reader, bucket, key, contentType string) error
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
