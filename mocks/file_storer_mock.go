package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockFileStorer struct {
	mock.Mock
}

// Upload drains body so expectations can match on the uploaded bytes.
func (m *MockFileStorer) Upload(ctx context.Context, body io.Reader, bucket, key, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	args := m.Called(ctx, data, bucket, key, contentType)

	return args.Error(0)
}

func (m *MockFileStorer) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	args := m.Called(ctx, bucket, key)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}
