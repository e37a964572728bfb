package user

import (
	"context"
	"errors"

	"github.com/ferdiebergado/tokenkit/internal/token"
)

type StubService struct {
	CreateFunc         func(ctx context.Context, params CreateParams) (*User, error)
	FindFunc           func(ctx context.Context, userID string) (*User, error)
	FindByEmailFunc    func(ctx context.Context, email string) (*User, error)
	ListFunc           func(ctx context.Context) ([]User, error)
	UpdatePasswordFunc func(ctx context.Context, userID, passwordHash string) error
	ChangeRoleFunc     func(ctx context.Context, userID string, role token.Role) error
}

var _ Service = (*StubService)(nil)

func (s *StubService) Create(ctx context.Context, params CreateParams) (*User, error) {
	if s.CreateFunc == nil {
		return nil, errors.New("Create() not implemented by stub")
	}
	return s.CreateFunc(ctx, params)
}

func (s *StubService) Find(ctx context.Context, userID string) (*User, error) {
	if s.FindFunc == nil {
		return nil, errors.New("Find() not implemented by stub")
	}
	return s.FindFunc(ctx, userID)
}

func (s *StubService) FindByEmail(ctx context.Context, email string) (*User, error) {
	if s.FindByEmailFunc == nil {
		return nil, errors.New("FindByEmail() not implemented by stub")
	}
	return s.FindByEmailFunc(ctx, email)
}

func (s *StubService) List(ctx context.Context) ([]User, error) {
	if s.ListFunc == nil {
		return nil, errors.New("List() not implemented by stub")
	}
	return s.ListFunc(ctx)
}

func (s *StubService) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if s.UpdatePasswordFunc == nil {
		return errors.New("UpdatePassword() not implemented by stub")
	}
	return s.UpdatePasswordFunc(ctx, userID, passwordHash)
}

func (s *StubService) ChangeRole(ctx context.Context, userID string, role token.Role) error {
	if s.ChangeRoleFunc == nil {
		return errors.New("ChangeRole() not implemented by stub")
	}
	return s.ChangeRoleFunc(ctx, userID, role)
}

type StubRepo struct {
	CreateFunc         func(ctx context.Context, params CreateParams) (*User, error)
	FindFunc           func(ctx context.Context, userID string) (*User, error)
	FindByEmailFunc    func(ctx context.Context, email string) (*User, error)
	ListFunc           func(ctx context.Context) ([]User, error)
	UpdatePasswordFunc func(ctx context.Context, userID, passwordHash string) error
	UpdateRoleFunc     func(ctx context.Context, userID string, role token.Role) error
}

var _ Repository = (*StubRepo)(nil)

func (r *StubRepo) Create(ctx context.Context, params CreateParams) (*User, error) {
	if r.CreateFunc == nil {
		return nil, errors.New("Create() not implemented by stub")
	}
	return r.CreateFunc(ctx, params)
}

func (r *StubRepo) Find(ctx context.Context, userID string) (*User, error) {
	if r.FindFunc == nil {
		return nil, errors.New("Find() not implemented by stub")
	}
	return r.FindFunc(ctx, userID)
}

func (r *StubRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if r.FindByEmailFunc == nil {
		return nil, errors.New("FindByEmail() not implemented by stub")
	}
	return r.FindByEmailFunc(ctx, email)
}

func (r *StubRepo) List(ctx context.Context) ([]User, error) {
	if r.ListFunc == nil {
		return nil, errors.New("List() not implemented by stub")
	}
	return r.ListFunc(ctx)
}

func (r *StubRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if r.UpdatePasswordFunc == nil {
		return errors.New("UpdatePassword() not implemented by stub")
	}
	return r.UpdatePasswordFunc(ctx, userID, passwordHash)
}

func (r *StubRepo) UpdateRole(ctx context.Context, userID string, role token.Role) error {
	if r.UpdateRoleFunc == nil {
		return errors.New("UpdateRole() not implemented by stub")
	}
	return r.UpdateRoleFunc(ctx, userID, role)
}
