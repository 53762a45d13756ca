// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"shop/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterMemberInput defines the data required to register a local member.
type RegisterMemberInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// LoginInput defines the data required for a member to log in.
type LoginInput struct {
	Email    string
	Password string
}

// SocialLoginInput carries the attribute map reported by a social provider.
type SocialLoginInput struct {
	Provider   string
	Attributes map[string]any
}

// SocialCallbackInput is the query of an authorization code redirect.
type SocialCallbackInput struct {
	Provider string
	Code     string
	State    string
}

// --- Output DTOs ---

// LoginOutput returns the access token issued after a successful login.
type LoginOutput struct {
	AccessToken string
	ExpiresAt   time.Time
	Principal   *entity.Principal
}

// MemberUsecase defines member registration and the authentication adapter.
type MemberUsecase interface {
	RegisterMember(ctx context.Context, input *RegisterMemberInput) (*entity.Member, error)
	// Authenticate loads the principal of a local member for credential checks.
	Authenticate(ctx context.Context, email string) (*entity.Principal, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	// SocialLogin provisions or refreshes the member behind a social attribute map.
	SocialLogin(ctx context.Context, input *SocialLoginInput) (*entity.Principal, error)
	// SocialLoginURL returns the provider sign-in URL carrying a fresh state value.
	SocialLoginURL(ctx context.Context, provider string) (string, error)
	SocialLoginWithCode(ctx context.Context, input *SocialCallbackInput) (*LoginOutput, error)
	SocialLoginWithIDToken(ctx context.Context, provider, idToken string) (*LoginOutput, error)
}
