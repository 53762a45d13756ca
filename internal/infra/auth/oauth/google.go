package oauth

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"shop/config"
	"shop/internal/domain/service"
)

var googleScopes = []string{"openid", "email", "profile"}

type googleProvider struct {
	oauthConfig *oauth2.Config
	verifier    service.IDTokenVerifier
}

// NewGoogleProvider creates the Google social login provider. The profile is
// taken from the ID token returned by the code exchange.
func NewGoogleProvider(pc *config.OAuthProviderConfig, verifier service.IDTokenVerifier) service.SocialProvider {
	return newGoogleProvider(pc, google.Endpoint, verifier)
}

func newGoogleProvider(pc *config.OAuthProviderConfig, endpoint oauth2.Endpoint, verifier service.IDTokenVerifier) *googleProvider {
	return &googleProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			RedirectURL:  pc.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       googleScopes,
		},
		verifier: verifier,
	}
}

func (p *googleProvider) Name() string {
	return service.ProviderGoogle
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

func (p *googleProvider) FetchAttributes(ctx context.Context, code string) (map[string]any, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange google authorization code")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("token response carries no id_token")
	}

	return p.verifier.VerifyIDToken(ctx, rawIDToken)
}

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type googleIDTokenVerifier struct {
	clientID string
	validate validateFunc
}

// NewGoogleIDTokenVerifier validates Google ID tokens issued for clientID.
func NewGoogleIDTokenVerifier(clientID string) service.IDTokenVerifier {
	return &googleIDTokenVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (v *googleIDTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (map[string]any, error) {
	payload, err := v.validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return nil, errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return nil, errors.New("email not verified")
	}

	attributes := make(map[string]any, len(payload.Claims)+1)
	for k, val := range payload.Claims {
		attributes[k] = val
	}
	attributes["sub"] = payload.Subject

	return attributes, nil
}
