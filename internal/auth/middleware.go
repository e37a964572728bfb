package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ferdiebergado/tokenkit/internal/pkg/message"
	"github.com/ferdiebergado/tokenkit/internal/pkg/security"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/token"
)

var ErrForbidden = errors.New("principal lacks the required role")

type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*token.Principal, error)
}

// RequireToken rejects requests without a valid, unrevoked bearer credential
// and stores the principal in the request context.
func RequireToken(authn TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slog.Info("Verifying access token...")

			tokenString, err := security.ExtractBearerToken(r)
			if err != nil {
				web.RespondUnauthorized(w, err, message.InvalidToken, nil)
				return
			}

			p, err := authn.Authenticate(r.Context(), tokenString)
			if err != nil {
				switch {
				case errors.Is(err, token.ErrExpired):
					web.RespondUnauthorized(w, err, message.ExpiredToken, nil)
				case errors.Is(err, ErrRevoked):
					web.RespondUnauthorized(w, err, message.RevokedToken, nil)
				case errors.Is(err, token.ErrMalformed), errors.Is(err, token.ErrSignatureInvalid):
					web.RespondUnauthorized(w, err, message.InvalidToken, nil)
				default:
					web.RespondInternalServerError(w, err)
				}
				return
			}

			ctx := ContextWithPrincipal(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must run after RequireToken.
func RequireRole(roles ...token.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := PrincipalFromContext(r.Context())
			if err != nil {
				web.RespondUnauthorized(w, err, message.InvalidToken, nil)
				return
			}

			if !p.HasRole(roles...) {
				slog.Warn("access denied", "user_id", p.Subject, "role", p.Role, "path", r.URL.Path)
				web.RespondForbidden(w, ErrForbidden, message.Forbidden, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
