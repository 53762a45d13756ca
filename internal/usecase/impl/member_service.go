// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "shop/internal/delivery/context"
	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/repository"
	"shop/internal/domain/service"
	"shop/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	kakaoDefaultName   = "Default User"
	unknownDisplayName = "Unknown User"
)

// memberService implements the MemberUsecase interface.
type memberService struct {
	txManager     repository.TransactionManager
	memberRepo    repository.MemberRepository
	hasher        service.PasswordHasher
	tokenService  service.TokenService
	providers     map[string]service.SocialProvider
	idTokenVerify service.IDTokenVerifier
	stateStore    service.OAuthStateStore
	logger        *slog.Logger
}

// MemberServiceParams holds dependencies for MemberService, injected by Fx.
type MemberServiceParams struct {
	fx.In

	TxManager       repository.TransactionManager
	MemberRepo      repository.MemberRepository
	Hasher          service.PasswordHasher
	TokenService    service.TokenService
	SocialProviders []service.SocialProvider `group:"social_providers"`
	IDTokenVerifier service.IDTokenVerifier  `optional:"true"`
	StateStore      service.OAuthStateStore
	Logger          *slog.Logger
}

// NewMemberService is the constructor for memberService.
func NewMemberService(params MemberServiceParams) usecase.MemberUsecase {
	providers := make(map[string]service.SocialProvider, len(params.SocialProviders))
	for _, p := range params.SocialProviders {
		if p != nil {
			providers[p.Name()] = p
		}
	}

	return &memberService{
		txManager:     params.TxManager,
		memberRepo:    params.MemberRepo,
		hasher:        params.Hasher,
		tokenService:  params.TokenService,
		providers:     providers,
		idTokenVerify: params.IDTokenVerifier,
		stateStore:    params.StateStore,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *memberService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterMember creates a local member with a hashed password.
func (srv *memberService) RegisterMember(ctx context.Context, input *usecase.RegisterMemberInput) (*entity.Member, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Registering member", slog.String("email", email))

	var registered *entity.Member
	err := srv.txManager.Execute(ctx, email, func(repoFactory repository.RepositoryFactory) error {
		memberRepo := repoFactory.MemberRepo()

		_, err := memberRepo.FindByEmail(ctx, email)
		if err == nil {
			return domainerrors.ErrDuplicateMember
		}
		if !errors.Is(err, repository.ErrMemberNotFound) {
			return errors.Wrap(err, "failed to look up member")
		}

		hash, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
		}

		member := entity.NewMember(input.Name, email, hash, input.Address)
		if err := memberRepo.Create(ctx, member); err != nil {
			return errors.Wrap(translateRepoError(err), "failed to create member")
		}
		registered = member

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Member registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to register member")
	}

	srv.log(ctx).Debug("Member registered", slog.Any("memberID", registered.ID))

	return registered, nil
}

// Authenticate loads the principal of a member that logs in with a password.
func (srv *memberService) Authenticate(ctx context.Context, email string) (*entity.Principal, error) {
	member, err := srv.memberRepo.FindByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, errors.Wrap(translateRepoError(err), "failed to authenticate")
	}
	if member.Social && !member.HasPassword() {
		return nil, domainerrors.ErrUnsupportedLoginMethod
	}

	return entity.NewLocalPrincipal(member), nil
}

// Login checks the password and issues an access token.
func (srv *memberService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	principal, err := srv.Authenticate(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrMemberNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, err
	}
	if !srv.hasher.Check(input.Password, principal.Password) {
		srv.log(ctx).Info("Password mismatch", slog.String("email", principal.Email))

		return nil, domainerrors.ErrInvalidCredentials
	}

	return srv.issueToken(principal)
}

// SocialLogin creates the member on first login and refreshes provider and name afterwards.
func (srv *memberService) SocialLogin(ctx context.Context, input *usecase.SocialLoginInput) (*entity.Principal, error) {
	email, name := extractSocialProfile(input.Provider, input.Attributes)
	if email == "" {
		return nil, domainerrors.ErrOAuthFailed.WithDetails("provider " + input.Provider + " did not report an email")
	}
	email = entity.NormalizeEmail(email)

	var member *entity.Member
	err := srv.txManager.Execute(ctx, email, func(repoFactory repository.RepositoryFactory) error {
		memberRepo := repoFactory.MemberRepo()

		existing, err := memberRepo.FindByEmail(ctx, email)
		switch {
		case errors.Is(err, repository.ErrMemberNotFound):
			member = entity.NewSocialMember(name, email, input.Provider)
			if err := memberRepo.Create(ctx, member); err != nil {
				return errors.Wrap(translateRepoError(err), "failed to create social member")
			}
			srv.log(ctx).Info("Social member created", slog.String("provider", input.Provider), slog.Any("memberID", member.ID))

			return nil
		case err != nil:
			return errors.Wrap(err, "failed to look up member")
		}

		existing.UpdateSocialProfile(input.Provider, name)
		if err := memberRepo.Update(ctx, existing); err != nil {
			return errors.Wrap(translateRepoError(err), "failed to update social member")
		}
		member = existing

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to complete social login")
	}

	principal := entity.NewSocialPrincipal(member, input.Provider, input.Attributes)
	principal.Social = member.Social
	if member.HasPassword() {
		principal.Password = *member.PasswordHash
	}

	return principal, nil
}

// SocialLoginURL issues a state value and returns the provider's sign-in URL.
func (srv *memberService) SocialLoginURL(_ context.Context, provider string) (string, error) {
	p, err := srv.provider(provider)
	if err != nil {
		return "", err
	}
	state, err := srv.stateStore.Issue()
	if err != nil {
		return "", errors.Wrap(err, "failed to issue oauth state")
	}

	return p.AuthCodeURL(state), nil
}

// SocialLoginWithCode completes the authorization code redirect.
func (srv *memberService) SocialLoginWithCode(ctx context.Context, input *usecase.SocialCallbackInput) (*usecase.LoginOutput, error) {
	p, err := srv.provider(input.Provider)
	if err != nil {
		return nil, err
	}
	if !srv.stateStore.Consume(input.State) {
		return nil, domainerrors.ErrOAuthStateInvalid
	}

	attributes, err := p.FetchAttributes(ctx, input.Code)
	if err != nil {
		srv.log(ctx).Warn("Fetching social attributes failed", slog.String("provider", input.Provider), slog.Any("error", err))

		return nil, domainerrors.ErrOAuthFailed.WrapMessage(err.Error())
	}

	principal, err := srv.SocialLogin(ctx, &usecase.SocialLoginInput{Provider: input.Provider, Attributes: attributes})
	if err != nil {
		return nil, err
	}

	return srv.issueToken(principal)
}

// SocialLoginWithIDToken signs in with an ID token obtained on the client.
func (srv *memberService) SocialLoginWithIDToken(ctx context.Context, provider, idToken string) (*usecase.LoginOutput, error) {
	if provider != service.ProviderGoogle || srv.idTokenVerify == nil {
		return nil, domainerrors.ErrOAuthProviderUnsupported.WithDetails(provider)
	}

	attributes, err := srv.idTokenVerify.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, domainerrors.ErrOAuthTokenInvalid.WrapMessage(err.Error())
	}

	principal, err := srv.SocialLogin(ctx, &usecase.SocialLoginInput{Provider: provider, Attributes: attributes})
	if err != nil {
		return nil, err
	}

	return srv.issueToken(principal)
}

func (srv *memberService) provider(name string) (service.SocialProvider, error) {
	p, ok := srv.providers[strings.ToLower(name)]
	if !ok {
		return nil, domainerrors.ErrOAuthProviderUnsupported.WithDetails(name)
	}

	return p, nil
}

func (srv *memberService) issueToken(principal *entity.Principal) (*usecase.LoginOutput, error) {
	token, expiresAt, err := srv.tokenService.GenerateAccessToken(principal.Email, principal.Authorities, principal.Provider)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.LoginOutput{
		AccessToken: token,
		ExpiresAt:   expiresAt.UTC().Truncate(time.Second),
		Principal:   principal,
	}, nil
}

// extractSocialProfile reads email and display name from a provider attribute map.
// Kakao nests both under kakao_account.
func extractSocialProfile(provider string, attributes map[string]any) (email, name string) {
	if provider == service.ProviderKakao {
		account, _ := attributes["kakao_account"].(map[string]any)
		email, _ = account["email"].(string)
		profile, _ := account["profile"].(map[string]any)
		name, _ = profile["nickname"].(string)
		if name == "" {
			name = kakaoDefaultName
		}

		return email, name
	}

	email, _ = attributes["email"].(string)
	name, _ = attributes["name"].(string)
	if name == "" {
		name = unknownDisplayName
	}

	return email, name
}
