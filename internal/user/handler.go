package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/pkg/message"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/token"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type UserData struct {
	ID        string     `json:"id,omitempty"`
	Email     string     `json:"email,omitempty"`
	Role      token.Role `json:"role,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`
}

func NewUserData(u *User) *UserData {
	return &UserData{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type ListResponse struct {
	Users []UserData `json:"users"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	data := make([]UserData, 0, len(users))
	for i := range users {
		data = append(data, *NewUserData(&users[i]))
	}

	web.RespondOK(w, nil, &ListResponse{Users: data})
}

type ChangeRoleRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,role"`
}

type ChangeRoleResponse struct {
	UserID string     `json:"user_id"`
	Role   token.Role `json:"role"`
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	params, err := web.ParamsFromContext[ChangeRoleRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	role, err := token.ParseRole(params.Role)
	if err != nil {
		web.RespondUnprocessableEntity(w, err, message.InvalidInput, map[string]string{"role": err.Error()})
		return
	}

	if err := h.svc.ChangeRole(r.Context(), params.UserID, role); err != nil {
		if errors.Is(err, ErrNotFound) {
			web.RespondNotFound(w, err, message.UserNotFound, nil)
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	msg := message.RoleChanged
	web.RespondOK(w, &msg, &ChangeRoleResponse{UserID: params.UserID, Role: role})
}
