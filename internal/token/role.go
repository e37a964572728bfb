package token

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRole = errors.New("invalid role")

// Role is the closed set of roles a credential may assert.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleAuthor    Role = "AUTHOR"
	RoleModerator Role = "MODERATOR"
)

// Roles returns every valid role.
func Roles() []Role {
	return []Role{RoleUser, RoleAdmin, RoleAuthor, RoleModerator}
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleAuthor, RoleModerator:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts any letter case and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}
