package entity

import "strings"

// Role is the single role a member holds.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"

	authorityPrefix = "ROLE_"
)

func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// Authority returns the granted-authority form of the role, e.g. "ROLE_USER".
func (r Role) Authority() string {
	return authorityPrefix + string(r)
}

// RoleFromAuthority is the inverse of Authority. Unknown values yield false.
func RoleFromAuthority(authority string) (Role, bool) {
	role := Role(strings.TrimPrefix(authority, authorityPrefix))
	if !role.IsValid() {
		return "", false
	}

	return role, true
}
