package domain

import "time"

// User is an entry of the identity directory.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdministrator reports whether the user holds the administrator role.
func (u *User) IsAdministrator() bool {
	return u != nil && u.Role == RoleAdministrator
}

// Session returns the non-sensitive projection kept for a logged-in client.
func (u *User) Session() SessionIdentity {
	return SessionIdentity{Username: u.Username, Role: u.Role}
}

// SessionIdentity is what a login session remembers about its user.
// It never carries the password hash.
type SessionIdentity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
