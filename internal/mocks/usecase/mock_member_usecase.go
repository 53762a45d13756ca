package usecase

import (
	"context"

	"shop/internal/domain/entity"
	"shop/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// MockMemberUsecase is a mock of usecase.MemberUsecase.
type MockMemberUsecase struct {
	mock.Mock
}

// NewMockMemberUsecase creates a mock whose expectations are asserted on test cleanup.
func NewMockMemberUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMemberUsecase {
	m := &MockMemberUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMemberUsecase) RegisterMember(ctx context.Context, input *usecase.RegisterMemberInput) (*entity.Member, error) {
	args := m.Called(ctx, input)

	var member *entity.Member
	if v := args.Get(0); v != nil {
		member = v.(*entity.Member)
	}

	return member, args.Error(1)
}

func (m *MockMemberUsecase) Authenticate(ctx context.Context, email string) (*entity.Principal, error) {
	args := m.Called(ctx, email)

	return principalArg(args, 0), args.Error(1)
}

func (m *MockMemberUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)

	return loginOutputArg(args, 0), args.Error(1)
}

func (m *MockMemberUsecase) SocialLogin(ctx context.Context, input *usecase.SocialLoginInput) (*entity.Principal, error) {
	args := m.Called(ctx, input)

	return principalArg(args, 0), args.Error(1)
}

func (m *MockMemberUsecase) SocialLoginURL(ctx context.Context, provider string) (string, error) {
	args := m.Called(ctx, provider)

	return args.String(0), args.Error(1)
}

func (m *MockMemberUsecase) SocialLoginWithCode(ctx context.Context, input *usecase.SocialCallbackInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)

	return loginOutputArg(args, 0), args.Error(1)
}

func (m *MockMemberUsecase) SocialLoginWithIDToken(ctx context.Context, provider, idToken string) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, provider, idToken)

	return loginOutputArg(args, 0), args.Error(1)
}

func principalArg(args mock.Arguments, i int) *entity.Principal {
	if v := args.Get(i); v != nil {
		return v.(*entity.Principal)
	}

	return nil
}

func loginOutputArg(args mock.Arguments, i int) *usecase.LoginOutput {
	if v := args.Get(i); v != nil {
		return v.(*usecase.LoginOutput)
	}

	return nil
}
