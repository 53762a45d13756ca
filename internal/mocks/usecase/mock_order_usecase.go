package usecase

import (
	"context"

	"shop/internal/domain/entity"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderUsecase is a mock of usecase.OrderUsecase.
type MockOrderUsecase struct {
	mock.Mock
}

// NewMockOrderUsecase creates a mock whose expectations are asserted on test cleanup.
func NewMockOrderUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrderUsecase {
	m := &MockOrderUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOrderUsecase) PlaceOrder(ctx context.Context, input *usecase.PlaceOrderInput) (uuid.UUID, error) {
	args := m.Called(ctx, input)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockOrderUsecase) PlaceOrders(ctx context.Context, input *usecase.PlaceOrdersInput) (uuid.UUID, error) {
	args := m.Called(ctx, input)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockOrderUsecase) CancelOrder(ctx context.Context, input *usecase.CancelOrderInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockOrderUsecase) ValidateOrderOwner(ctx context.Context, orderID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, orderID, email)

	return args.Bool(0), args.Error(1)
}

func (m *MockOrderUsecase) History(ctx context.Context, email string, page entity.Page) (*entity.PageResult[*entity.OrderHistory], error) {
	args := m.Called(ctx, email, page)

	var result *entity.PageResult[*entity.OrderHistory]
	if v := args.Get(0); v != nil {
		result = v.(*entity.PageResult[*entity.OrderHistory])
	}

	return result, args.Error(1)
}
