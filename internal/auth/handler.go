package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/pkg/message"
	"github.com/ferdiebergado/tokenkit/internal/pkg/security"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

type Handler struct {
	svc    Service
	cookie *config.Cookie
	now    func() time.Time
}

func NewHandler(svc Service, cookieCfg *config.Cookie, clock func() time.Time) *Handler {
	if clock == nil {
		clock = time.Now
	}

	return &Handler{
		svc:    svc,
		cookie: cookieCfg,
		now:    clock,
	}
}

type RegisterRequest struct {
	Email           string `json:"email,omitempty" validate:"required,email"`
	Password        string `json:"password,omitempty" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (r RegisterRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
		slog.String("password_confirm", maskChar),
	)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[RegisterRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	u, err := h.svc.Register(r.Context(), RegisterParams{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			web.RespondConflict(w, err, message.UserExists, nil)
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	msg := MsgRegisterSuccess
	web.RespondCreated(w, &msg, user.NewUserData(u))
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"required"`
}

func (r LoginRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Role        token.Role `json:"role"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[LoginRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	session, err := h.svc.Login(r.Context(), LoginParams(req))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			web.RespondUnauthorized(w, err, message.InvalidUser, nil)
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	h.respondWithSession(w, session, MsgLoggedIn)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshCookie, err := r.Cookie(h.cookie.Name)
	if err != nil || refreshCookie.Value == "" {
		web.RespondUnauthorized(w, err, message.InvalidToken, nil)
		return
	}

	session, err := h.svc.Refresh(r.Context(), refreshCookie.Value)
	if err != nil {
		var tokErr *token.Error
		if errors.As(err, &tokErr) || errors.Is(err, ErrRevoked) || errors.Is(err, ErrInvalidCredentials) {
			http.SetCookie(w, h.expiredCookie())
			web.RespondUnauthorized(w, err, message.InvalidToken, nil)
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	h.respondWithSession(w, session, MsgRefreshed)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p, err := PrincipalFromContext(r.Context())
	if err != nil {
		web.RespondUnauthorized(w, err, message.InvalidToken, nil)
		return
	}

	var refreshToken string
	if c, err := r.Cookie(h.cookie.Name); err == nil {
		refreshToken = c.Value
	}

	if err := h.svc.Logout(r.Context(), p, refreshToken); err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	http.SetCookie(w, h.expiredCookie())

	msg := MsgLoggedOut
	web.RespondOK[struct{}](w, &msg, nil)
}

type MeResponse struct {
	*user.UserData
	TokenExpiresAt time.Time `json:"token_expires_at"`
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := PrincipalFromContext(r.Context())
	if err != nil {
		web.RespondUnauthorized(w, err, message.InvalidToken, nil)
		return
	}

	u, err := h.svc.Me(r.Context(), p)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			web.RespondNotFound(w, err, message.UserNotFound, nil)
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	web.RespondOK(w, nil, &MeResponse{UserData: user.NewUserData(u), TokenExpiresAt: p.ExpiresAt})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password,omitempty" validate:"required"`
	NewPassword     string `json:"new_password,omitempty" validate:"required,min=8,nefield=CurrentPassword"`
	RepeatPassword  string `json:"repeat_password,omitempty" validate:"required,eqfield=NewPassword"`
}

func (r ChangePasswordRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("current_password", maskChar),
		slog.String("new_password", maskChar),
		slog.String("repeat_password", maskChar),
	)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, err := PrincipalFromContext(r.Context())
	if err != nil {
		web.RespondUnauthorized(w, err, message.InvalidToken, nil)
		return
	}

	req, err := web.ParamsFromContext[ChangePasswordRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	params := ChangePasswordParams{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}
	if err := h.svc.ChangePassword(r.Context(), p, params); err != nil {
		if errors.Is(err, ErrIncorrectPassword) {
			web.RespondUnprocessableEntity(w, err, MsgIncorrectPass, map[string]string{"current_password": MsgIncorrectPass})
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	msg := MsgPasswordChanged
	web.RespondOK[struct{}](w, &msg, nil)
}

func (h *Handler) respondWithSession(w http.ResponseWriter, session *Session, msg string) {
	refresh := session.Refresh
	http.SetCookie(w, security.HardenedCookie(h.cookie.Name, refresh.Token, h.cookie.Path, refresh.ExpiresAt.Sub(h.now())))

	access := session.Access
	data := &TokenResponse{
		AccessToken: access.Token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   access.ExpiresAt,
		Role:        access.Role,
	}
	web.RespondOK(w, &msg, data)
}

func (h *Handler) expiredCookie() *http.Cookie {
	return security.HardenedCookie(h.cookie.Name, "", h.cookie.Path, 0)
}
