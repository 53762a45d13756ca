package service

import "context"

// Social login provider names as they appear in callback URLs and on members.
const (
	ProviderKakao  = "kakao"
	ProviderGoogle = "google"
)

// SocialProvider performs the authorization code flow against one social login provider.
type SocialProvider interface {
	// Name is the registration id of the provider, e.g. "kakao".
	Name() string

	// AuthCodeURL is where the browser is sent to sign in.
	AuthCodeURL(state string) string

	// FetchAttributes exchanges the authorization code and returns the raw
	// user attribute map reported by the provider.
	FetchAttributes(ctx context.Context, code string) (map[string]any, error)
}

// IDTokenVerifier validates an ID token obtained by a client-side sign-in and
// returns its claims as an attribute map.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (map[string]any, error)
}

// OAuthStateStore issues and consumes one-time state values for the authorization redirect.
type OAuthStateStore interface {
	Issue() (string, error)

	// Consume reports whether state was issued and is unexpired, and invalidates it.
	Consume(state string) bool
}
