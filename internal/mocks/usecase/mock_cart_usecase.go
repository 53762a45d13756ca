package usecase

import (
	"context"

	"shop/internal/domain/entity"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCartUsecase is a mock of usecase.CartUsecase.
type MockCartUsecase struct {
	mock.Mock
}

// NewMockCartUsecase creates a mock whose expectations are asserted on test cleanup.
func NewMockCartUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCartUsecase {
	m := &MockCartUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCartUsecase) AddToCart(ctx context.Context, input *usecase.AddToCartInput) (uuid.UUID, error) {
	args := m.Called(ctx, input)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCartUsecase) UpdateCartItemQuantity(ctx context.Context, input *usecase.UpdateCartItemInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockCartUsecase) DeleteCartItem(ctx context.Context, cartItemID uuid.UUID, email string) error {
	return m.Called(ctx, cartItemID, email).Error(0)
}

func (m *MockCartUsecase) ListCart(ctx context.Context, email string) ([]*entity.CartDetail, error) {
	args := m.Called(ctx, email)

	var details []*entity.CartDetail
	if v := args.Get(0); v != nil {
		details = v.([]*entity.CartDetail)
	}

	return details, args.Error(1)
}

func (m *MockCartUsecase) OrderCartItems(ctx context.Context, input *usecase.OrderCartItemsInput) (uuid.UUID, error) {
	args := m.Called(ctx, input)

	return args.Get(0).(uuid.UUID), args.Error(1)
}
