package domain

import "strings"

// Role is the closed set of principal roles. Values outside the constants
// below can only be produced by bypassing ParseRole.
type Role string

const (
	// Regular users can create posts and manage the ones they authored.
	RoleRegular Role = "regular"
	// Admins can manage every post.
	RoleAdmin Role = "admin"
)

// ParseRole converts untrusted input into a Role.
// An empty string yields RoleRegular, anything unknown is rejected.
func ParseRole(s string) (Role, error) {
	switch strings.TrimSpace(s) {
	case "", string(RoleRegular):
		return RoleRegular, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole(s)
	}
}

func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleAdmin
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) String() string { return string(r) }
