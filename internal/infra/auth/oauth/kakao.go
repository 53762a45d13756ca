package oauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"shop/config"
	"shop/internal/domain/service"
)

const (
	kakaoAuthURL     = "https://kauth.kakao.com/oauth/authorize"
	kakaoTokenURL    = "https://kauth.kakao.com/oauth/token"
	kakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"
)

var kakaoScopes = []string{"profile_nickname", "account_email"}

type kakaoProvider struct {
	oauthConfig *oauth2.Config
	userInfoURL string
}

// NewKakaoProvider creates the Kakao social login provider.
func NewKakaoProvider(pc *config.OAuthProviderConfig) service.SocialProvider {
	return newKakaoProvider(pc, oauth2.Endpoint{
		AuthURL:   kakaoAuthURL,
		TokenURL:  kakaoTokenURL,
		AuthStyle: oauth2.AuthStyleInParams,
	}, kakaoUserInfoURL)
}

func newKakaoProvider(pc *config.OAuthProviderConfig, endpoint oauth2.Endpoint, userInfoURL string) *kakaoProvider {
	return &kakaoProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			RedirectURL:  pc.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       kakaoScopes,
		},
		userInfoURL: userInfoURL,
	}
}

func (p *kakaoProvider) Name() string {
	return service.ProviderKakao
}

func (p *kakaoProvider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

// FetchAttributes exchanges the code and returns the user/me document as is.
// Email and nickname live under kakao_account.
func (p *kakaoProvider) FetchAttributes(ctx context.Context, code string) (map[string]any, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange kakao authorization code")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user info request")
	}

	resp, err := p.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get kakao user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, errors.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var attributes map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&attributes); err != nil {
		return nil, errors.Wrap(err, "failed to decode user info response")
	}

	return attributes, nil
}
