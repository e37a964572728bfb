package token

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Type separates short-lived access credentials from refresh credentials.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

type claims struct {
	jwt.RegisteredClaims

	Role Role `json:"role"`
	Type Type `json:"token_type"`
}

// Credential is an issued token together with what it encodes. Token is the
// only part that leaves the process.
type Credential struct {
	Token     string
	ID        string
	Subject   string
	Role      Role
	Type      Type
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is the identity carried by a verified credential.
type Principal struct {
	Subject   string
	Role      Role
	TokenID   string
	Type      Type
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasRole reports whether the principal holds any of the given roles.
func (p *Principal) HasRole(roles ...Role) bool {
	return slices.Contains(roles, p.Role)
}
