package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ferdiebergado/tokenkit/internal/token"
)

type Service interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	Find(ctx context.Context, userID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	ChangeRole(ctx context.Context, userID string, role token.Role) error
}

type service struct {
	repo Repository
}

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// NormalizeEmail is the stored and looked-up form of an email address.
// Addresses differing only in case or surrounding space name the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Create(ctx context.Context, params CreateParams) (*User, error) {
	params.Email = NormalizeEmail(params.Email)

	if params.Role == "" {
		params.Role = token.RoleUser
	}

	if !params.Role.Valid() {
		return nil, fmt.Errorf("create user: %w: %q", token.ErrInvalidRole, params.Role)
	}

	u, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	slog.Info("user created", "user", u)
	return u, nil
}

func (s *service) Find(ctx context.Context, userID string) (*User, error) {
	return s.repo.Find(ctx, userID)
}

func (s *service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, NormalizeEmail(email))
}

func (s *service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// ChangeRole takes effect on the next issued credential; credentials already
// issued keep the role they were signed with until they expire.
func (s *service) ChangeRole(ctx context.Context, userID string, role token.Role) error {
	if !role.Valid() {
		return fmt.Errorf("change role: %w: %q", token.ErrInvalidRole, role)
	}

	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	slog.Info("user role changed", "user_id", userID, "role", role)
	return nil
}
