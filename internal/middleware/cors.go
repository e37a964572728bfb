package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
)

var (
	allowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	allowedHeaders = []string{"Accept", web.HeaderAuthorization, web.HeaderContentType, HeaderRequestID}
	exposedHeaders = []string{HeaderRequestID}
)

// CORS allows browser clients on the configured origins to call the API with credentials.
// The refresh cookie is SameSite=Strict, so it is only sent by origins on the same site,
// such as another port or subdomain of the API's host.
func CORS(cfg *config.CORS) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: true,
		MaxAge:           cfg.MaxAge,
	})
}
