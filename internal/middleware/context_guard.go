package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
)

const msgRequestAbandoned = "Request cancelled or timed out."

// ContextGuard stops requests whose context is already cancelled or past its deadline,
// so no credential is issued or revoked for a client that has gone away.
func ContextGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.Context().Err(); err != nil {
			slog.Debug("Request abandoned before handling.",
				"request_id", RequestIDFromContext(r.Context()),
				"path", r.URL.Path,
				"reason", err)
			web.RespondRequestTimeout(w, err, msgRequestAbandoned, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
