package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/auth"
	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/pkg/message"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

var cookieCfg = &config.Cookie{Name: "refresh_token", Path: "/auth"}

func clock() time.Time { return t0 }

func testSession() *auth.Session {
	return &auth.Session{
		Access: &token.Credential{
			Token: "access-token", Type: token.TypeAccess, Role: token.RoleAuthor,
			IssuedAt: t0, ExpiresAt: t0.Add(15 * time.Minute),
		},
		Refresh: &token.Credential{
			Token: "refresh-token", Type: token.TypeRefresh, Role: token.RoleAuthor,
			IssuedAt: t0, ExpiresAt: t0.Add(24 * time.Hour),
		},
	}
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		loginErr error
		wantCode int
	}{
		{"Valid credentials", nil, http.StatusOK},
		{"Invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"Service failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &auth.StubService{
				LoginFunc: func(_ context.Context, params auth.LoginParams) (*auth.Session, error) {
					if params.Email != userEmail {
						t.Errorf("params.Email = %q, want: %q", params.Email, userEmail)
					}
					if tt.loginErr != nil {
						return nil, tt.loginErr
					}
					return testSession(), nil
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", http.NoBody)
			params := auth.LoginRequest{Email: userEmail, Password: password}
			req = req.WithContext(web.NewContextWithParams(req.Context(), params))
			rec := httptest.NewRecorder()

			auth.NewHandler(svc, cookieCfg, clock).Login(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantCode {
				t.Fatalf(message.FmtErrStatusCode, res.StatusCode, tt.wantCode)
			}

			if tt.wantCode != http.StatusOK {
				return
			}

			var body web.OKResponse[*auth.TokenResponse]
			if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}

			if body.Data.AccessToken != "access-token" || body.Data.TokenType != auth.TokenTypeBearer || body.Data.Role != token.RoleAuthor {
				t.Errorf("body.Data = %+v", body.Data)
			}

			cookies := res.Cookies()
			if len(cookies) != 1 {
				t.Fatalf("len(cookies) = %d, want: 1", len(cookies))
			}

			c := cookies[0]
			if c.Name != cookieCfg.Name || c.Value != "refresh-token" || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteStrictMode {
				t.Errorf("refresh cookie = %+v", c)
			}

			if want := int((24 * time.Hour).Seconds()); c.MaxAge != want {
				t.Errorf("c.MaxAge = %d, want: %d", c.MaxAge, want)
			}
		})
	}
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		regErr   error
		wantCode int
	}{
		{"Registers a user", nil, http.StatusCreated},
		{"Existing user", auth.ErrUserExists, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &auth.StubService{
				RegisterFunc: func(_ context.Context, params auth.RegisterParams) (*user.User, error) {
					if tt.regErr != nil {
						return nil, tt.regErr
					}
					return &user.User{ID: userID, Email: params.Email, Role: token.RoleUser, CreatedAt: t0, UpdatedAt: t0}, nil
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", http.NoBody)
			params := auth.RegisterRequest{Email: userEmail, Password: password, PasswordConfirm: password}
			req = req.WithContext(web.NewContextWithParams(req.Context(), params))
			rec := httptest.NewRecorder()

			auth.NewHandler(svc, cookieCfg, clock).Register(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf(message.FmtErrStatusCode, rec.Code, tt.wantCode)
			}

			if tt.wantCode != http.StatusCreated {
				return
			}

			var body web.OKResponse[*user.UserData]
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}

			if body.Data.ID != userID || body.Data.Role != token.RoleUser {
				t.Errorf("body.Data = %+v", body.Data)
			}
		})
	}
}

func TestHandler_Refresh(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cookie     string
		refreshErr error
		wantCode   int
	}{
		{"Rotates the session", "refresh-token", nil, http.StatusOK},
		{"Missing cookie", "", nil, http.StatusUnauthorized},
		{"Revoked refresh token", "refresh-token", auth.ErrRevoked, http.StatusUnauthorized},
		{"Expired refresh token", "refresh-token", token.ErrExpired, http.StatusUnauthorized},
		{"Service failure", "refresh-token", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &auth.StubService{
				RefreshFunc: func(_ context.Context, refreshToken string) (*auth.Session, error) {
					if refreshToken != tt.cookie {
						t.Errorf("refreshToken = %q, want: %q", refreshToken, tt.cookie)
					}
					if tt.refreshErr != nil {
						return nil, tt.refreshErr
					}
					return testSession(), nil
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", http.NoBody)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookieCfg.Name, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			auth.NewHandler(svc, cookieCfg, clock).Refresh(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf(message.FmtErrStatusCode, rec.Code, tt.wantCode)
			}
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	t.Parallel()

	principal := &token.Principal{Subject: userID, Role: token.RoleUser, TokenID: "jti"}

	var gotRefresh string
	svc := &auth.StubService{
		LogoutFunc: func(_ context.Context, access *token.Principal, refreshToken string) error {
			if access != principal {
				t.Errorf("access = %+v, want: %+v", access, principal)
			}
			gotRefresh = refreshToken
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", http.NoBody)
	req.AddCookie(&http.Cookie{Name: cookieCfg.Name, Value: "refresh-token"})
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()

	auth.NewHandler(svc, cookieCfg, clock).Logout(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf(message.FmtErrStatusCode, res.StatusCode, http.StatusOK)
	}

	if gotRefresh != "refresh-token" {
		t.Errorf("refreshToken = %q, want: %q", gotRefresh, "refresh-token")
	}

	cookies := res.Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("cookies = %+v, want: one expired refresh cookie", cookies)
	}
}

func TestHandler_ChangePassword(t *testing.T) {
	t.Parallel()

	principal := &token.Principal{Subject: userID, Role: token.RoleUser}

	tests := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{"Changes the password", nil, http.StatusOK},
		{"Incorrect current password", auth.ErrIncorrectPassword, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &auth.StubService{
				ChangePasswordFunc: func(_ context.Context, _ *token.Principal, _ auth.ChangePasswordParams) error {
					return tt.svcErr
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/change-password", http.NoBody)
			params := auth.ChangePasswordRequest{CurrentPassword: password, NewPassword: "new-password", RepeatPassword: "new-password"}
			ctx := web.NewContextWithParams(req.Context(), params)
			ctx = auth.ContextWithPrincipal(ctx, principal)
			rec := httptest.NewRecorder()

			auth.NewHandler(svc, cookieCfg, clock).ChangePassword(rec, req.WithContext(ctx))

			if rec.Code != tt.wantCode {
				t.Errorf(message.FmtErrStatusCode, rec.Code, tt.wantCode)
			}
		})
	}
}

func TestHandler_Me(t *testing.T) {
	t.Parallel()

	principal := &token.Principal{Subject: userID, Role: token.RoleAdmin, ExpiresAt: t0.Add(time.Hour)}
	svc := &auth.StubService{
		MeFunc: func(_ context.Context, p *token.Principal) (*user.User, error) {
			return &user.User{ID: p.Subject, Email: userEmail, Role: p.Role, CreatedAt: t0, UpdatedAt: t0}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", http.NoBody)
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()

	auth.NewHandler(svc, cookieCfg, clock).Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf(message.FmtErrStatusCode, rec.Code, http.StatusOK)
	}

	var body web.OKResponse[*auth.MeResponse]
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	if body.Data.Email != userEmail || body.Data.Role != token.RoleAdmin || !body.Data.TokenExpiresAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("body.Data = %+v", body.Data)
	}
}
