package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Member is a registered shopper or administrator.
// Social members authenticate through an external provider and have no password.
type Member struct {
	ID           uuid.UUID
	Name         string
	Email        string // unique across all members
	PasswordHash *string
	Address      string
	Role         Role
	Social       bool
	Provider     *string
	Audit
}

// NewMember builds a local member with role USER. The password must already be hashed.
func NewMember(name, email, passwordHash, address string) *Member {
	return &Member{
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: &passwordHash,
		Address:      address,
		Role:         RoleUser,
	}
}

// NewSocialMember builds a member created on first social login.
func NewSocialMember(name, email, provider string) *Member {
	return &Member{
		Name:     name,
		Email:    normalizeEmail(email),
		Role:     RoleUser,
		Social:   true,
		Provider: &provider,
	}
}

// UpdateSocialProfile refreshes the provider and display name after a repeated social login.
func (m *Member) UpdateSocialProfile(provider, name string) {
	m.Provider = &provider
	m.Name = name
}

// HasPassword reports whether the member can log in with local credentials.
func (m *Member) HasPassword() bool {
	return m.PasswordHash != nil && *m.PasswordHash != ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeEmail is the canonical form used for lookups by email.
func NormalizeEmail(email string) string {
	return normalizeEmail(email)
}
