// Package memstore is an in-memory objectstore.FileStorer for tests and local runs.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"object-updater/internal/objectstore"
)

type Object struct {
	Body        []byte
	ContentType string
}

type Store struct {
	mu      sync.RWMutex
	objects map[string]Object
	uploads int
}

func New() *Store {
	return &Store{
		objects: make(map[string]Object),
	}
}

func (s *Store) Upload(ctx context.Context, body io.Reader, bucket, key, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read upload body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[objectKey(bucket, key)] = Object{Body: data, ContentType: contentType}
	s.uploads++

	return nil
}

func (s *Store) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[objectKey(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("failed to download %s/%s: %w", bucket, key, objectstore.ErrObjectNotFound)
	}

	return bytes.Clone(obj.Body), nil
}

// Object returns a copy of the stored object.
func (s *Store) Object(bucket, key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[objectKey(bucket, key)]
	if !ok {
		return Object{}, false
	}

	return Object{Body: bytes.Clone(obj.Body), ContentType: obj.ContentType}, true
}

// Uploads counts successful Upload calls.
func (s *Store) Uploads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploads
}

func objectKey(bucket, key string) string {
	return bucket + "/" + key
}
