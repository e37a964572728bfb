package security

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingAuthHeader = errors.New("missing Authorization header")
	ErrNotBearer         = errors.New("authorization scheme is not Bearer")
	ErrEmptyBearer       = errors.New("empty bearer token")
)

const bearerScheme = "Bearer"

// ExtractBearerToken returns the credential from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingAuthHeader
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrNotBearer
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyBearer
	}

	return token, nil
}
