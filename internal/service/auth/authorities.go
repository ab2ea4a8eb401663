package auth

import "strings"

// AuthorityPrefix is prepended to role names to form authority strings.
const AuthorityPrefix = "ROLE_"

// AuthorityForRole converts a role name into an authority string,
// prefixing it with ROLE_ unless it is already so prefixed.
func AuthorityForRole(roleName string) string {
	if strings.HasPrefix(roleName, AuthorityPrefix) {
		return roleName
	}
	return AuthorityPrefix + roleName
}

// AuthoritiesForRoles maps a list of role names to authority strings.
func AuthoritiesForRoles(roleNames []string) []string {
	authorities := make([]string, 0, len(roleNames))
	for _, name := range roleNames {
		authorities = append(authorities, AuthorityForRole(name))
	}
	return authorities
}

// Principal is the authentication-ready identity derived from stored
// credentials: the username, the password hash to compare against, and
// the authorities used for access checks.
type Principal struct {
	Username       string
	HashedPassword string
	Authorities    []string
}

// HasAuthority reports whether the principal carries the given authority.
func (p Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasAnyAuthority reports whether the principal carries at least one of
// the given authorities.
func (p Principal) HasAnyAuthority(authorities ...string) bool {
	for _, a := range authorities {
		if p.HasAuthority(a) {
			return true
		}
	}
	return false
}
