package domain

import (
	"fmt"
	"strings"
)

// Role is the permission class assigned to a user.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleVeterinarian  Role = "veterinarian"
	RoleStaff         Role = "staff"
)

var knownRoles = []Role{RoleAdministrator, RoleVeterinarian, RoleStaff}

// Roles returns every role known to this deployment.
func Roles() []Role {
	out := make([]Role, len(knownRoles))
	copy(out, knownRoles)
	return out
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, k := range knownRoles {
		if r == k {
			return true
		}
	}
	return false
}

// ParseRole converts user input into a Role. Matching is exact after trimming
// surrounding whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}
