package service

import (
	"context"

	"shop/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockImageStore is a mock of service.ImageStore.
type MockImageStore struct {
	mock.Mock
}

// NewMockImageStore creates a mock whose expectations are asserted on test cleanup.
func NewMockImageStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockImageStore {
	m := &MockImageStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockImageStore) Put(ctx context.Context, originalName, contentType string, data []byte) (*service.StoredImage, error) {
	args := m.Called(ctx, originalName, contentType, data)

	var img *service.StoredImage
	if v := args.Get(0); v != nil {
		img = v.(*service.StoredImage)
	}

	return img, args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}
