package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockLocker struct {
	mock.Mock
}

// Acquire returns a release func that records a "Release" call on the mock.
func (m *MockLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	args := m.Called(ctx, name, ttl)

	if err := args.Error(0); err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		return m.MethodCalled("Release", ctx, name).Error(0)
	}, nil
}
