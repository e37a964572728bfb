// Package token issues and verifies signed, time-bounded credentials that
// assert a subject and a role.
//
// A credential is valid if and only if its HMAC-SHA256 signature verifies under
// the signing key and the verification time is strictly before its expiry.
// Revocation, if any, is the caller's business.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinKeyLength is the shortest accepted signing key, in bytes (the HS256 output size).
const MinKeyLength = 32

const segmentCount = 3

var strictEncoding = base64.RawURLEncoding.Strict()

// Authenticator issues and verifies credentials. Implementations are safe for
// concurrent use.
type Authenticator interface {
	// Issue returns an access credential valid from now until now + TTL.
	Issue(subject string, role Role, now time.Time) (*Credential, error)
	// IssueRefresh returns a refresh credential valid from now until now + refresh TTL.
	IssueRefresh(subject string, role Role, now time.Time) (*Credential, error)
	// Verify checks an access credential at time now.
	Verify(tokenString string, now time.Time) (*Principal, error)
	// VerifyRefresh checks a refresh credential at time now.
	VerifyRefresh(tokenString string, now time.Time) (*Principal, error)
}

type golangJWTAuthenticator struct {
	method     *jwt.SigningMethodHMAC
	key        []byte
	issuer     string
	ttl        time.Duration
	refreshTTL time.Duration
	parser     *jwt.Parser
	newID      func() string
}

var _ Authenticator = (*golangJWTAuthenticator)(nil)

// New returns an HS256 Authenticator. It fails with ErrKeyUnavailable when the
// key is shorter than MinKeyLength; the process should not start in that case.
func New(cfg *config.JWT, key string) (Authenticator, error) {
	if len(key) < MinKeyLength {
		return nil, newError(KeyUnavailable, fmt.Errorf("key must be at least %d bytes, got %d", MinKeyLength, len(key)))
	}

	if cfg == nil {
		return nil, errors.New("jwt config is nil")
	}

	if cfg.TTL.Duration < time.Second || cfg.RefreshTTL.Duration < time.Second {
		return nil, fmt.Errorf("ttl and refresh ttl must be at least 1s, got %s and %s", cfg.TTL.Duration, cfg.RefreshTTL.Duration)
	}

	method := jwt.SigningMethodHS256

	// Claims are validated in verify so that expiry is exact (now >= exp).
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithoutClaimsValidation(),
		jwt.WithStrictDecoding(),
	)

	return &golangJWTAuthenticator{
		method:     method,
		key:        []byte(key),
		issuer:     cfg.Issuer,
		ttl:        cfg.TTL.Duration,
		refreshTTL: cfg.RefreshTTL.Duration,
		parser:     parser,
		newID:      uuid.NewString,
	}, nil
}

func (a *golangJWTAuthenticator) Issue(subject string, role Role, now time.Time) (*Credential, error) {
	return a.issue(subject, role, TypeAccess, a.ttl, now)
}

func (a *golangJWTAuthenticator) IssueRefresh(subject string, role Role, now time.Time) (*Credential, error) {
	return a.issue(subject, role, TypeRefresh, a.refreshTTL, now)
}

func (a *golangJWTAuthenticator) Verify(tokenString string, now time.Time) (*Principal, error) {
	return a.verify(tokenString, TypeAccess, now)
}

func (a *golangJWTAuthenticator) VerifyRefresh(tokenString string, now time.Time) (*Principal, error) {
	return a.verify(tokenString, TypeRefresh, now)
}

func (a *golangJWTAuthenticator) issue(subject string, role Role, typ Type, ttl time.Duration, now time.Time) (*Credential, error) {
	if subject == "" {
		return nil, errors.New("subject is required")
	}

	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	issuedAt := jwt.NewNumericDate(now)
	expiresAt := jwt.NewNumericDate(now.Add(ttl))
	id := a.newID()

	c := &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   subject,
			ID:        id,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
		Role: role,
		Type: typ,
	}

	signed, err := jwt.NewWithClaims(a.method, c).SignedString(a.key)
	if err != nil {
		return nil, fmt.Errorf("sign %s token: %w", typ, err)
	}

	return &Credential{
		Token:     signed,
		ID:        id,
		Subject:   subject,
		Role:      role,
		Type:      typ,
		IssuedAt:  issuedAt.Time,
		ExpiresAt: expiresAt.Time,
	}, nil
}

// verify checks, in order: shape (Malformed), signature over the raw
// header.payload bytes (SignatureInvalid), claims (Malformed), expiry (Expired).
// The signature is checked before anything is decoded, so any change to a
// well-formed token is reported as SignatureInvalid.
func (a *golangJWTAuthenticator) verify(tokenString string, want Type, now time.Time) (*Principal, error) {
	segments, err := splitSegments(tokenString)
	if err != nil {
		return nil, newError(Malformed, err)
	}

	sig, err := strictEncoding.DecodeString(segments[2])
	if err != nil {
		return nil, newError(SignatureInvalid, fmt.Errorf("decode signature: %w", err))
	}

	signingInput := tokenString[:len(segments[0])+1+len(segments[1])]
	if err := a.method.Verify(signingInput, sig, a.key); err != nil {
		return nil, newError(SignatureInvalid, err)
	}

	parsed, err := a.parser.ParseWithClaims(tokenString, &claims{}, func(_ *jwt.Token) (any, error) {
		return a.key, nil
	})
	if err != nil {
		return nil, newError(Malformed, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, newError(Malformed, fmt.Errorf("unknown claims type: %T", parsed.Claims))
	}

	if err := a.checkClaims(c, want); err != nil {
		return nil, newError(Malformed, err)
	}

	expiresAt := c.ExpiresAt.Time
	if !now.Before(expiresAt) {
		return nil, newError(Expired, fmt.Errorf("expired at %s", expiresAt.UTC().Format(time.RFC3339)))
	}

	p := &Principal{
		Subject:   c.Subject,
		Role:      c.Role,
		TokenID:   c.ID,
		Type:      c.Type,
		ExpiresAt: expiresAt,
	}
	if c.IssuedAt != nil {
		p.IssuedAt = c.IssuedAt.Time
	}

	return p, nil
}

func (a *golangJWTAuthenticator) checkClaims(c *claims, want Type) error {
	switch {
	case c.Subject == "":
		return errors.New("missing subject")
	case c.ExpiresAt == nil:
		return errors.New("missing expiry")
	case c.Issuer != a.issuer:
		return fmt.Errorf("unexpected issuer %q", c.Issuer)
	case !c.Role.Valid():
		return fmt.Errorf("%w: %q", ErrInvalidRole, c.Role)
	case c.Type != want:
		return fmt.Errorf("expected %s token, got %q", want, c.Type)
	}
	return nil
}

func splitSegments(tokenString string) ([]string, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	segments := strings.Split(tokenString, ".")
	if len(segments) != segmentCount {
		return nil, fmt.Errorf("expected %d segments, got %d", segmentCount, len(segments))
	}

	for i, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("segment %d is empty", i)
		}
		if !isBase64URL(s) {
			return nil, fmt.Errorf("segment %d is not base64url", i)
		}
	}

	return segments, nil
}

func isBase64URL(s string) bool {
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
