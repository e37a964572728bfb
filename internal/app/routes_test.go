package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/auth"
	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/metrics"
	"github.com/ferdiebergado/tokenkit/internal/middleware"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/platform/router"
	"github.com/ferdiebergado/tokenkit/internal/platform/validation"
	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

const (
	adminToken   = "admin-token"
	userToken    = "user-token"
	refreshToken = "refresh-token"
	cookieName   = "refresh_token"
	userID     = "f47ac10b-58cc-4372-a567-0e02b2c3d479"
)

func newTestRouter(t *testing.T) router.Router {
	t.Helper()

	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	now := time.Date(2025, 5, 9, 10, 0, 0, 0, time.UTC)
	principals := map[string]*token.Principal{
		adminToken: {Subject: userID, Role: token.RoleAdmin, TokenID: "a", Type: token.TypeAccess, ExpiresAt: now.Add(time.Hour)},
		userToken:  {Subject: userID, Role: token.RoleUser, TokenID: "u", Type: token.TypeAccess, ExpiresAt: now.Add(time.Hour)},
	}

	authSvc := &auth.StubService{
		AuthenticateFunc: func(_ context.Context, accessToken string) (*token.Principal, error) {
			if p, ok := principals[accessToken]; ok {
				return p, nil
			}
			return nil, token.ErrSignatureInvalid
		},
		RefreshFunc: func(_ context.Context, presented string) (*auth.Session, error) {
			if presented != refreshToken {
				return nil, token.ErrSignatureInvalid
			}
			return &auth.Session{
				Access:  &token.Credential{Token: userToken, Subject: userID, Role: token.RoleUser, Type: token.TypeAccess, ExpiresAt: now.Add(time.Hour)},
				Refresh: &token.Credential{Token: refreshToken, Subject: userID, Role: token.RoleUser, Type: token.TypeRefresh, ExpiresAt: now.Add(24 * time.Hour)},
			}, nil
		},
		LogoutFunc: func(_ context.Context, _ *token.Principal, _ string) error {
			return nil
		},
		MeFunc: func(_ context.Context, p *token.Principal) (*user.User, error) {
			return &user.User{ID: p.Subject, Email: "alice@example.com", Role: p.Role}, nil
		},
	}

	userSvc := &user.StubService{
		ListFunc: func(_ context.Context) ([]user.User, error) {
			return []user.User{{ID: userID, Email: "alice@example.com", Role: token.RoleAdmin}}, nil
		},
		ChangeRoleFunc: func(_ context.Context, _ string, _ token.Role) error {
			return nil
		},
	}

	r := router.NewGoexpressRouter()
	r.Use(middleware.InjectWriter)
	r.Use(middleware.CheckContentType)

	validator := validation.NewGoPlaygroundValidator()
	cookieCfg := &config.Cookie{Name: cookieName, Path: "/auth"}
	clock := func() time.Time { return now }

	mountHealthRoute(r)
	mountMetricsRoute(r, metrics.New(), &config.Metrics{Enabled: true, Path: "/metrics"})
	mountAuthRoutes(r, auth.NewHandler(authSvc, cookieCfg, clock), authSvc, validator, 1024)
	mountUserRoutes(r, user.NewHandler(userSvc), authSvc, validator, 1024)

	return r
}

func TestRoutes_AccessControl(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name, method, path, bearer, cookie, body string
		wantCode                                 int
	}{
		{"Health is public", http.MethodGet, "/health", "", "", "", http.StatusOK},
		{"Metrics are public", http.MethodGet, "/metrics", "", "", "", http.StatusOK},
		{"Me without token", http.MethodGet, "/auth/me", "", "", "", http.StatusUnauthorized},
		{"Me with bad token", http.MethodGet, "/auth/me", "forged", "", "", http.StatusUnauthorized},
		{"Me with token", http.MethodGet, "/auth/me", userToken, "", "", http.StatusOK},
		{"List users as USER", http.MethodGet, "/users", userToken, "", "", http.StatusForbidden},
		{"List users as ADMIN", http.MethodGet, "/users", adminToken, "", "", http.StatusOK},
		{"List users anonymously", http.MethodGet, "/users", "", "", "", http.StatusUnauthorized},
		{"Change role as USER", http.MethodPatch, "/users/role", userToken, "",
			`{"user_id":"` + userID + `","role":"ADMIN"}`, http.StatusForbidden},
		{"Change role as ADMIN", http.MethodPatch, "/users/role", adminToken, "",
			`{"user_id":"` + userID + `","role":"moderator"}`, http.StatusOK},
		{"Change role to unknown role", http.MethodPatch, "/users/role", adminToken, "",
			`{"user_id":"` + userID + `","role":"ROOT"}`, http.StatusUnprocessableEntity},
		{"Login with invalid payload", http.MethodPost, "/auth/login", "", "",
			`{"email":"not-an-email","password":"x"}`, http.StatusUnprocessableEntity},
		{"Refresh with cookie only", http.MethodPost, "/auth/refresh", "", refreshToken, "", http.StatusOK},
		{"Refresh with forged cookie", http.MethodPost, "/auth/refresh", "", "forged", "", http.StatusUnauthorized},
		{"Refresh without cookie", http.MethodPost, "/auth/refresh", "", "", "", http.StatusUnauthorized},
		{"Logout with bearer only", http.MethodPost, "/auth/logout", userToken, "", "", http.StatusOK},
		{"Logout with bearer and cookie", http.MethodPost, "/auth/logout", userToken, refreshToken, "", http.StatusOK},
		{"Logout without token", http.MethodPost, "/auth/logout", "", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = http.NoBody
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}

			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.body != "" {
				req.Header.Set(web.HeaderContentType, web.MimeJSON)
			}
			if tt.bearer != "" {
				req.Header.Set(web.HeaderAuthorization, "Bearer "+tt.bearer)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("%s %s = %d, want: %d (body: %s)", tt.method, tt.path, rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}
