package auth

import (
	"context"
	"errors"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

type StubService struct {
	RegisterFunc       func(ctx context.Context, params RegisterParams) (*user.User, error)
	LoginFunc          func(ctx context.Context, params LoginParams) (*Session, error)
	RefreshFunc        func(ctx context.Context, refreshToken string) (*Session, error)
	LogoutFunc         func(ctx context.Context, access *token.Principal, refreshToken string) error
	AuthenticateFunc   func(ctx context.Context, accessToken string) (*token.Principal, error)
	ChangePasswordFunc func(ctx context.Context, p *token.Principal, params ChangePasswordParams) error
	MeFunc             func(ctx context.Context, p *token.Principal) (*user.User, error)
	PurgeRevokedFunc   func(ctx context.Context) (int64, error)
}

var _ Service = (*StubService)(nil)

func (s *StubService) Register(ctx context.Context, params RegisterParams) (*user.User, error) {
	if s.RegisterFunc == nil {
		return nil, errors.New("Register not implemented by stub")
	}
	return s.RegisterFunc(ctx, params)
}

func (s *StubService) Login(ctx context.Context, params LoginParams) (*Session, error) {
	if s.LoginFunc == nil {
		return nil, errors.New("Login not implemented by stub")
	}
	return s.LoginFunc(ctx, params)
}

func (s *StubService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if s.RefreshFunc == nil {
		return nil, errors.New("Refresh not implemented by stub")
	}
	return s.RefreshFunc(ctx, refreshToken)
}

func (s *StubService) Logout(ctx context.Context, access *token.Principal, refreshToken string) error {
	if s.LogoutFunc == nil {
		return errors.New("Logout not implemented by stub")
	}
	return s.LogoutFunc(ctx, access, refreshToken)
}

func (s *StubService) Authenticate(ctx context.Context, accessToken string) (*token.Principal, error) {
	if s.AuthenticateFunc == nil {
		return nil, errors.New("Authenticate not implemented by stub")
	}
	return s.AuthenticateFunc(ctx, accessToken)
}

func (s *StubService) ChangePassword(ctx context.Context, p *token.Principal, params ChangePasswordParams) error {
	if s.ChangePasswordFunc == nil {
		return errors.New("ChangePassword not implemented by stub")
	}
	return s.ChangePasswordFunc(ctx, p, params)
}

func (s *StubService) Me(ctx context.Context, p *token.Principal) (*user.User, error) {
	if s.MeFunc == nil {
		return nil, errors.New("Me not implemented by stub")
	}
	return s.MeFunc(ctx, p)
}

func (s *StubService) PurgeRevoked(ctx context.Context) (int64, error) {
	if s.PurgeRevokedFunc == nil {
		return 0, errors.New("PurgeRevoked not implemented by stub")
	}
	return s.PurgeRevokedFunc(ctx)
}

type StubRevocationRepository struct {
	RevokeFunc       func(ctx context.Context, tokenID, subject string, expiresAt time.Time) (bool, error)
	IsRevokedFunc    func(ctx context.Context, tokenID string) (bool, error)
	PurgeExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

var _ RevocationRepository = (*StubRevocationRepository)(nil)

func (r *StubRevocationRepository) Revoke(ctx context.Context, tokenID, subject string, expiresAt time.Time) (bool, error) {
	if r.RevokeFunc == nil {
		return false, errors.New("Revoke not implemented by stub")
	}
	return r.RevokeFunc(ctx, tokenID, subject, expiresAt)
}

func (r *StubRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r.IsRevokedFunc == nil {
		return false, errors.New("IsRevoked not implemented by stub")
	}
	return r.IsRevokedFunc(ctx, tokenID)
}

func (r *StubRevocationRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if r.PurgeExpiredFunc == nil {
		return 0, errors.New("PurgeExpired not implemented by stub")
	}
	return r.PurgeExpiredFunc(ctx, now)
}
