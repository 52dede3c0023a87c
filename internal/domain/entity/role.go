// Package entity contains the core business objects of the project.
package entity

import (
	"fmt"
	"slices"
)

// Role represents the type of role a user can hold within a platform.
type Role string

const (
	// RoleAdmin grants administrative control over a platform.
	RoleAdmin Role = "admin"
	// RoleMember is the default role assigned on first platform login.
	RoleMember Role = "member"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// Intersects reports whether any role in other is also present in rs.
func (rs Roles) Intersects(other Roles) bool {
	for _, r := range other {
		if slices.Contains(rs, r) {
			return true
		}
	}

	return false
}

// ToStrings converts Roles to []string for JWT compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RolesFromStrings converts []string to Roles, filtering out invalid role
// strings. Used for token claims, where an unknown value means a role that
// no longer exists rather than caller error.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(s)
		if role.IsValid() {
			result = append(result, role)
		}
	}

	return result
}

// ParseRoles converts []string to Roles, rejecting unknown role strings.
// Used for caller-supplied input, where an unknown value is an error.
func ParseRoles(ss []string) (Roles, error) {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(s)
		if !role.IsValid() {
			return nil, fmt.Errorf("unknown role %q", s)
		}
		result = append(result, role)
	}

	return result, nil
}
