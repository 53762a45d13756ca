package usecase

import (
	"context"

	"shop/internal/domain/entity"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockItemUsecase is a mock of usecase.ItemUsecase.
type MockItemUsecase struct {
	mock.Mock
}

// NewMockItemUsecase creates a mock whose expectations are asserted on test cleanup.
func NewMockItemUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockItemUsecase {
	m := &MockItemUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockItemUsecase) RegisterItem(ctx context.Context, input *usecase.RegisterItemInput, actor string) (uuid.UUID, error) {
	args := m.Called(ctx, input, actor)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockItemUsecase) UpdateItem(ctx context.Context, input *usecase.UpdateItemInput, actor string) error {
	args := m.Called(ctx, input, actor)

	return args.Error(0)
}

func (m *MockItemUsecase) GetItem(ctx context.Context, id uuid.UUID) (*entity.ItemDetail, error) {
	args := m.Called(ctx, id)

	var detail *entity.ItemDetail
	if v := args.Get(0); v != nil {
		detail = v.(*entity.ItemDetail)
	}

	return detail, args.Error(1)
}

func (m *MockItemUsecase) SearchAdminItems(ctx context.Context, search entity.ItemSearch, page entity.Page) (*entity.PageResult[*entity.Item], error) {
	args := m.Called(ctx, search, page)

	var result *entity.PageResult[*entity.Item]
	if v := args.Get(0); v != nil {
		result = v.(*entity.PageResult[*entity.Item])
	}

	return result, args.Error(1)
}

func (m *MockItemUsecase) SearchMainItems(ctx context.Context, query string, page entity.Page) (*entity.PageResult[*entity.MainItem], error) {
	args := m.Called(ctx, query, page)

	var result *entity.PageResult[*entity.MainItem]
	if v := args.Get(0); v != nil {
		result = v.(*entity.PageResult[*entity.MainItem])
	}

	return result, args.Error(1)
}

func (m *MockItemUsecase) ResolveItemQR(ctx context.Context, qrData string) (*entity.ItemDetail, error) {
	args := m.Called(ctx, qrData)

	var detail *entity.ItemDetail
	if v := args.Get(0); v != nil {
		detail = v.(*entity.ItemDetail)
	}

	return detail, args.Error(1)
}

func (m *MockItemUsecase) ItemQRCode(ctx context.Context, id uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, id)

	var png []byte
	if v := args.Get(0); v != nil {
		png = v.([]byte)
	}

	return png, args.Error(1)
}
