// Package oauth implements the social login providers used by the member workflows.
package oauth

import (
	"log/slog"

	"shop/config"
	"shop/internal/domain/service"
)

// NewSocialProviders builds every provider that has a client ID configured.
// Providers without credentials are left out, so their callback URLs answer with
// an unsupported-provider error.
func NewSocialProviders(cfg *config.Config, verifier service.IDTokenVerifier, logger *slog.Logger) []service.SocialProvider {
	if cfg.OAuth == nil {
		logger.Info("Social login disabled: no oauth section configured")

		return nil
	}

	var providers []service.SocialProvider
	if enabled(cfg.OAuth.Kakao) {
		providers = append(providers, NewKakaoProvider(cfg.OAuth.Kakao))
	}
	if enabled(cfg.OAuth.Google) && verifier != nil {
		providers = append(providers, NewGoogleProvider(cfg.OAuth.Google, verifier))
	}

	for _, p := range providers {
		logger.Info("Social login provider enabled", slog.String("provider", p.Name()))
	}

	return providers
}

// NewIDTokenVerifier returns the Google ID token verifier, or nil when Google
// sign-in is not configured.
func NewIDTokenVerifier(cfg *config.Config) service.IDTokenVerifier {
	if cfg.OAuth == nil || !enabled(cfg.OAuth.Google) {
		return nil
	}

	return NewGoogleIDTokenVerifier(cfg.OAuth.Google.ClientID)
}

func enabled(pc *config.OAuthProviderConfig) bool {
	return pc != nil && pc.ClientID != ""
}
