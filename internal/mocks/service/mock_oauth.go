package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSocialProvider is a mock of service.SocialProvider.
type MockSocialProvider struct {
	mock.Mock
}

// NewMockSocialProvider creates a mock whose expectations are asserted on test cleanup.
func NewMockSocialProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSocialProvider {
	m := &MockSocialProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSocialProvider) Name() string {
	args := m.Called()

	return args.String(0)
}

func (m *MockSocialProvider) AuthCodeURL(state string) string {
	args := m.Called(state)

	return args.String(0)
}

func (m *MockSocialProvider) FetchAttributes(ctx context.Context, code string) (map[string]any, error) {
	args := m.Called(ctx, code)

	var attrs map[string]any
	if v := args.Get(0); v != nil {
		attrs = v.(map[string]any)
	}

	return attrs, args.Error(1)
}

// MockIDTokenVerifier is a mock of service.IDTokenVerifier.
type MockIDTokenVerifier struct {
	mock.Mock
}

// NewMockIDTokenVerifier creates a mock whose expectations are asserted on test cleanup.
func NewMockIDTokenVerifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIDTokenVerifier {
	m := &MockIDTokenVerifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockIDTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (map[string]any, error) {
	args := m.Called(ctx, idToken)

	var attrs map[string]any
	if v := args.Get(0); v != nil {
		attrs = v.(map[string]any)
	}

	return attrs, args.Error(1)
}

// MockOAuthStateStore is a mock of service.OAuthStateStore.
type MockOAuthStateStore struct {
	mock.Mock
}

// NewMockOAuthStateStore creates a mock whose expectations are asserted on test cleanup.
func NewMockOAuthStateStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOAuthStateStore {
	m := &MockOAuthStateStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOAuthStateStore) Issue() (string, error) {
	args := m.Called()

	return args.String(0), args.Error(1)
}

func (m *MockOAuthStateStore) Consume(state string) bool {
	args := m.Called(state)

	return args.Bool(0)
}
