package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"object-updater/internal/models"
)

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordUpload(ctx context.Context, rec models.UploadRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
