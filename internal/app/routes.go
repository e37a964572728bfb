package app

import (
	"net/http"

	"github.com/ferdiebergado/tokenkit/internal/auth"
	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/metrics"
	"github.com/ferdiebergado/tokenkit/internal/middleware"
	"github.com/ferdiebergado/tokenkit/internal/platform/router"
	"github.com/ferdiebergado/tokenkit/internal/platform/validation"
	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

func mountAuthRoutes(r router.Router, handler *auth.Handler, authn auth.TokenAuthenticator, validator validation.Validator, maxBodySize int64) {
	requireToken := auth.RequireToken(authn)

	r.Post("/auth/register", handler.Register,
		middleware.DecodePayload[auth.RegisterRequest](maxBodySize),
		middleware.ValidateInput[auth.RegisterRequest](validator))
	r.Post("/auth/login", handler.Login,
		middleware.DecodePayload[auth.LoginRequest](maxBodySize),
		middleware.ValidateInput[auth.LoginRequest](validator))
	r.Post("/auth/refresh", handler.Refresh)
	r.Post("/auth/logout", handler.Logout, requireToken)
	r.Get("/auth/me", handler.Me, requireToken)
	r.Post("/auth/change-password", handler.ChangePassword,
		requireToken,
		middleware.DecodePayload[auth.ChangePasswordRequest](maxBodySize),
		middleware.ValidateInput[auth.ChangePasswordRequest](validator))
}

func mountUserRoutes(r router.Router, handler *user.Handler, authn auth.TokenAuthenticator, validator validation.Validator, maxBodySize int64) {
	requireAdmin := []router.Middleware{auth.RequireToken(authn), auth.RequireRole(token.RoleAdmin)}

	r.Get("/users", handler.List, requireAdmin...)
	r.Patch("/users/role", handler.ChangeRole, append(requireAdmin,
		middleware.DecodePayload[user.ChangeRoleRequest](maxBodySize),
		middleware.ValidateInput[user.ChangeRoleRequest](validator))...)
}

func mountMetricsRoute(r router.Router, m *metrics.Metrics, cfg *config.Metrics) {
	if !cfg.Enabled {
		return
	}
	r.Get(cfg.Path, m.Handler().ServeHTTP)
}

func mountHealthRoute(r router.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
