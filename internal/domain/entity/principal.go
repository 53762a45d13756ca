package entity

// SocialPasswordPlaceholder stands in for the password of principals built from a social login.
const SocialPasswordPlaceholder = "N/A"

// Principal is the authenticated identity handed to the delivery layer.
type Principal struct {
	Email       string
	Name        string
	Password    string // bcrypt hash, or SocialPasswordPlaceholder for social principals
	Authorities []string
	Social      bool
	Provider    string
	// Attributes is the raw attribute map returned by the social provider, nil for local logins.
	Attributes map[string]any
}

// NewLocalPrincipal builds the principal of a password-authenticated member.
func NewLocalPrincipal(m *Member) *Principal {
	password := ""
	if m.PasswordHash != nil {
		password = *m.PasswordHash
	}

	return &Principal{
		Email:       m.Email,
		Name:        m.Name,
		Password:    password,
		Authorities: []string{m.Role.Authority()},
	}
}

// NewSocialPrincipal builds the principal of a member who logged in through provider.
func NewSocialPrincipal(m *Member, provider string, attributes map[string]any) *Principal {
	return &Principal{
		Email:       m.Email,
		Name:        m.Name,
		Password:    SocialPasswordPlaceholder,
		Authorities: []string{m.Role.Authority()},
		Social:      true,
		Provider:    provider,
		Attributes:  attributes,
	}
}

// Roles converts the authorities back to roles, dropping unknown values.
func (p *Principal) Roles() []Role {
	roles := make([]Role, 0, len(p.Authorities))
	for _, authority := range p.Authorities {
		if role, ok := RoleFromAuthority(authority); ok {
			roles = append(roles, role)
		}
	}

	return roles
}
