package impl

import (
	"context"
	"testing"
	"time"

	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/service"
	"shop/internal/infra/persistence/model"
	mockSvc "shop/internal/mocks/service"
	"shop/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memberServiceFixtures struct {
	store        *testStore
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
	kakao        *mockSvc.MockSocialProvider
	verifier     *mockSvc.MockIDTokenVerifier
	stateStore   *mockSvc.MockOAuthStateStore
	service      usecase.MemberUsecase
}

func createTestMemberService(t *testing.T) memberServiceFixtures {
	store := newTestStore(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	kakao := mockSvc.NewMockSocialProvider(t)
	verifier := mockSvc.NewMockIDTokenVerifier(t)
	stateStore := mockSvc.NewMockOAuthStateStore(t)

	kakao.On("Name").Return(service.ProviderKakao)

	srv := NewMemberService(MemberServiceParams{
		TxManager:       store.txManager,
		MemberRepo:      store.members,
		Hasher:          hasher,
		TokenService:    tokenService,
		SocialProviders: []service.SocialProvider{kakao},
		IDTokenVerifier: verifier,
		StateStore:      stateStore,
		Logger:          newDiscardLogger(),
	})

	return memberServiceFixtures{
		store:        store,
		hasher:       hasher,
		tokenService: tokenService,
		kakao:        kakao,
		verifier:     verifier,
		stateStore:   stateStore,
		service:      srv,
	}
}

func kakaoAttributes(email, nickname string) map[string]any {
	profile := map[string]any{}
	if nickname != "" {
		profile["nickname"] = nickname
	}

	return map[string]any{
		"id": float64(4242),
		"kakao_account": map[string]any{
			"email":   email,
			"profile": profile,
		},
	}
}

func TestMemberService_RegisterMember(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()

	fx.hasher.On("Hash", "s3cret!").Return("hashed", nil).Once()

	member, err := fx.service.RegisterMember(ctx, &usecase.RegisterMemberInput{
		Name: "Park", Email: "Park@Shop.Test", Password: "s3cret!", Address: "Incheon",
	})
	require.NoError(t, err)
	assert.Equal(t, "park@shop.test", member.Email)
	assert.Equal(t, entity.RoleUser, member.Role)
	assert.False(t, member.Social)
	assert.Equal(t, "park@shop.test", member.CreatedBy)

	_, err = fx.service.RegisterMember(ctx, &usecase.RegisterMemberInput{
		Name: "Other", Email: "park@shop.test", Password: "s3cret!",
	})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateMember)
	fx.hasher.AssertNumberOfCalls(t, "Hash", 1)

	stored, err := fx.store.members.FindByEmail(ctx, "park@shop.test")
	require.NoError(t, err)
	assert.Equal(t, "Park", stored.Name)
}

func TestMemberService_RegisterMember_HashFailure(t *testing.T) {
	fx := createTestMemberService(t)

	fx.hasher.On("Hash", "pw").Return("", errors.New("cost too high"))

	_, err := fx.service.RegisterMember(context.Background(), &usecase.RegisterMemberInput{Name: "x", Email: "x@shop.test", Password: "pw"})

	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
	assert.Equal(t, int64(0), countMembers(t, fx.store))
}

func countMembers(t *testing.T, store *testStore) int64 {
	t.Helper()

	var n int64
	require.NoError(t, store.db.Model(&model.MemberModel{}).Count(&n).Error)

	return n
}

func TestMemberService_AuthenticateAndLogin(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()

	member := fx.store.seedMember(t, "login@shop.test", entity.RoleAdmin)
	expiresAt := time.Now().Add(time.Hour)

	principal, err := fx.service.Authenticate(ctx, "LOGIN@shop.test")
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_ADMIN"}, principal.Authorities)
	assert.Equal(t, *member.PasswordHash, principal.Password)

	fx.hasher.On("Check", "right", *member.PasswordHash).Return(true)
	fx.hasher.On("Check", "wrong", *member.PasswordHash).Return(false)
	fx.tokenService.On("GenerateAccessToken", "login@shop.test", []string{"ROLE_ADMIN"}, "").Return("token", expiresAt, nil)

	out, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "login@shop.test", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, "token", out.AccessToken)
	assert.Equal(t, "login@shop.test", out.Principal.Email)

	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: "login@shop.test", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: "nobody@shop.test", Password: "right"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = fx.service.Authenticate(ctx, "nobody@shop.test")
	assert.ErrorIs(t, err, domainerrors.ErrMemberNotFound)
}

func TestMemberService_SocialLogin(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()

	attrs := kakaoAttributes("kakao@shop.test", "Minji")
	principal, err := fx.service.SocialLogin(ctx, &usecase.SocialLoginInput{Provider: service.ProviderKakao, Attributes: attrs})
	require.NoError(t, err)
	assert.Equal(t, "kakao@shop.test", principal.Email)
	assert.Equal(t, entity.SocialPasswordPlaceholder, principal.Password)
	assert.Equal(t, []string{"ROLE_USER"}, principal.Authorities)
	assert.True(t, principal.Social)
	assert.Equal(t, attrs, principal.Attributes)

	member, err := fx.store.members.FindByEmail(ctx, "kakao@shop.test")
	require.NoError(t, err)
	assert.Equal(t, "Minji", member.Name)
	assert.Nil(t, member.PasswordHash)
	assert.True(t, member.Social)

	_, err = fx.service.SocialLogin(ctx, &usecase.SocialLoginInput{
		Provider:   service.ProviderGoogle,
		Attributes: map[string]any{"email": "kakao@shop.test"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), countMembers(t, fx.store))
	member, err = fx.store.members.FindByEmail(ctx, "kakao@shop.test")
	require.NoError(t, err)
	assert.Equal(t, "Unknown User", member.Name)
	require.NotNil(t, member.Provider)
	assert.Equal(t, service.ProviderGoogle, *member.Provider)

	_, err = fx.service.Authenticate(ctx, "kakao@shop.test")
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedLoginMethod)
}

func TestMemberService_SocialLogin_Defaults(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()

	_, err := fx.service.SocialLogin(ctx, &usecase.SocialLoginInput{
		Provider:   service.ProviderKakao,
		Attributes: kakaoAttributes("nameless@shop.test", ""),
	})
	require.NoError(t, err)

	member, err := fx.store.members.FindByEmail(ctx, "nameless@shop.test")
	require.NoError(t, err)
	assert.Equal(t, "Default User", member.Name)

	_, err = fx.service.SocialLogin(ctx, &usecase.SocialLoginInput{Provider: service.ProviderKakao, Attributes: map[string]any{}})
	assert.ErrorIs(t, err, domainerrors.ErrOAuthFailed)
}

func TestMemberService_SocialLoginWithCode(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	fx.stateStore.On("Issue").Return("state-1", nil).Once()
	fx.kakao.On("AuthCodeURL", "state-1").Return("https://kauth.kakao.com/oauth/authorize?state=state-1").Once()

	url, err := fx.service.SocialLoginURL(ctx, "kakao")
	require.NoError(t, err)
	assert.Contains(t, url, "state-1")

	fx.stateStore.On("Consume", "forged").Return(false).Once()
	_, err = fx.service.SocialLoginWithCode(ctx, &usecase.SocialCallbackInput{Provider: "kakao", Code: "code", State: "forged"})
	assert.ErrorIs(t, err, domainerrors.ErrOAuthStateInvalid)

	fx.stateStore.On("Consume", "state-1").Return(true).Once()
	fx.kakao.On("FetchAttributes", mock.Anything, "code").Return(kakaoAttributes("code@shop.test", "Jisoo"), nil).Once()
	fx.tokenService.On("GenerateAccessToken", "code@shop.test", []string{"ROLE_USER"}, service.ProviderKakao).
		Return("social-token", expiresAt, nil).Once()

	out, err := fx.service.SocialLoginWithCode(ctx, &usecase.SocialCallbackInput{Provider: "kakao", Code: "code", State: "state-1"})
	require.NoError(t, err)
	assert.Equal(t, "social-token", out.AccessToken)
	assert.Equal(t, "Jisoo", out.Principal.Name)

	_, err = fx.service.SocialLoginURL(ctx, "naver")
	assert.ErrorIs(t, err, domainerrors.ErrOAuthProviderUnsupported)
}

func TestMemberService_SocialLoginWithIDToken(t *testing.T) {
	fx := createTestMemberService(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	fx.verifier.On("VerifyIDToken", mock.Anything, "bad").Return(nil, errors.New("signature mismatch")).Once()
	_, err := fx.service.SocialLoginWithIDToken(ctx, service.ProviderGoogle, "bad")
	assert.ErrorIs(t, err, domainerrors.ErrOAuthTokenInvalid)

	fx.verifier.On("VerifyIDToken", mock.Anything, "good").
		Return(map[string]any{"email": "g@shop.test", "name": "Gwen"}, nil).Once()
	fx.tokenService.On("GenerateAccessToken", "g@shop.test", []string{"ROLE_USER"}, service.ProviderGoogle).
		Return("google-token", expiresAt, nil).Once()

	out, err := fx.service.SocialLoginWithIDToken(ctx, service.ProviderGoogle, "good")
	require.NoError(t, err)
	assert.Equal(t, "google-token", out.AccessToken)
	assert.Equal(t, "Gwen", out.Principal.Name)

	_, err = fx.service.SocialLoginWithIDToken(ctx, service.ProviderKakao, "any")
	assert.ErrorIs(t, err, domainerrors.ErrOAuthProviderUnsupported)
}
