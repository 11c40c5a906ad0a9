package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"object-updater/internal/models"
)

type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) Update(ctx context.Context, payload []byte, key string, contentType models.ContentType) (bool, error) {
	args := m.Called(ctx, payload, key, contentType)
	return args.Bool(0), args.Error(1)
}

func (m *MockUpdater) Bucket() string {
	args := m.Called()
	return args.String(0)
}
