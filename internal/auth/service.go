package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/metrics"
	"github.com/ferdiebergado/tokenkit/internal/platform/db"
	"github.com/ferdiebergado/tokenkit/internal/platform/hash"
	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("auth service: invalid email or password")
	ErrUserExists         = errors.New("auth service: user already exists")
	ErrRevoked            = errors.New("auth service: token has been revoked")
	ErrIncorrectPassword  = errors.New("auth service: current password is incorrect")
)

type Service interface {
	Register(ctx context.Context, params RegisterParams) (*user.User, error)
	Login(ctx context.Context, params LoginParams) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, access *token.Principal, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*token.Principal, error)
	ChangePassword(ctx context.Context, p *token.Principal, params ChangePasswordParams) error
	Me(ctx context.Context, p *token.Principal) (*user.User, error)
	PurgeRevoked(ctx context.Context) (int64, error)
}

// Session is the pair of credentials handed out on login and refresh.
type Session struct {
	Access  *token.Credential
	Refresh *token.Credential
}

type RegisterParams struct {
	Email    string
	Password string
}

func (p RegisterParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

type LoginParams struct {
	Email    string
	Password string
}

func (p LoginParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

type ChangePasswordParams struct {
	CurrentPassword string
	NewPassword     string
}

func (p ChangePasswordParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("current_password", maskChar),
		slog.String("new_password", maskChar),
	)
}

type Dependencies struct {
	Authenticator token.Authenticator
	Hasher        hash.Hasher
	Users         user.Service
	Revocations   RevocationRepository
	TxManager     db.TxManager
	Metrics       *metrics.Metrics
	// Clock defaults to time.Now.
	Clock func() time.Time
}

type service struct {
	authenticator token.Authenticator
	hasher        hash.Hasher
	users         user.Service
	revocations   RevocationRepository
	txMgr         db.TxManager
	metrics       *metrics.Metrics
	now           func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// unknownUserPassword is hashed once and verified against when the email is not
// registered, so both login failures cost one argon2 run.
const unknownUserPassword = "tokenkit-unknown-user"

var _ Service = (*service)(nil)

func NewService(deps *Dependencies) Service {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &service{
		authenticator: deps.Authenticator,
		hasher:        deps.Hasher,
		users:         deps.Users,
		revocations:   deps.Revocations,
		txMgr:         deps.TxManager,
		metrics:       deps.Metrics,
		now:           clock,
	}
}

func (s *service) Register(ctx context.Context, params RegisterParams) (*user.User, error) {
	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, user.CreateParams{
		Email:        params.Email,
		PasswordHash: passwordHash,
		Role:         token.RoleUser,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	return u, nil
}

func (s *service) Login(ctx context.Context, params LoginParams) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.verifyDummy(params.Password)
			s.metrics.LoginFailed()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	ok, err := s.hasher.Verify(params.Password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password for user %s: %w", u.ID, err)
	}

	if !ok {
		s.metrics.LoginFailed()
		return nil, ErrInvalidCredentials
	}

	session, err := s.issueSession(u.ID, u.Role)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return session, nil
}

// Refresh rotates the refresh credential: the presented one is revoked and a
// new pair is issued with the user's current role.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	p, err := s.authenticator.VerifyRefresh(refreshToken, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.checkRevoked(ctx, p); err != nil {
		return nil, err
	}

	u, err := s.users.Find(ctx, p.Subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user %s: %w", p.Subject, err)
	}

	var session *Session
	err = s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		// The insert is the point of no return: a concurrent refresh with the same
		// credential may have passed checkRevoked too, but only one insert wins.
		inserted, err := s.revocations.Revoke(txCtx, p.TokenID, p.Subject, p.ExpiresAt)
		if err != nil {
			return err
		}
		if !inserted {
			s.metrics.RevokedUse(p.Type)
			return ErrRevoked
		}

		var issueErr error
		session, issueErr = s.issueSession(u.ID, u.Role)
		return issueErr
	})
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	s.metrics.Revoked(1)
	return session, nil
}

// Logout revokes the access credential and, when it belongs to the same
// subject, the refresh credential.
func (s *service) Logout(ctx context.Context, access *token.Principal, refreshToken string) error {
	toRevoke := []*token.Principal{access}

	if refreshToken != "" {
		refresh, err := s.authenticator.VerifyRefresh(refreshToken, s.now())
		switch {
		case err != nil:
			slog.Info("ignoring unusable refresh token on logout", "reason", err)
		case refresh.Subject != access.Subject:
			slog.Warn("refresh token subject does not match access token", "user_id", access.Subject)
		default:
			toRevoke = append(toRevoke, refresh)
		}
	}

	var revoked int
	err := s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		revoked = 0
		for _, p := range toRevoke {
			inserted, err := s.revocations.Revoke(txCtx, p.TokenID, p.Subject, p.ExpiresAt)
			if err != nil {
				return err
			}
			if inserted {
				revoked++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.metrics.Revoked(revoked)
	slog.Info("user logged out", "user_id", access.Subject)
	return nil
}

func (s *service) Authenticate(ctx context.Context, accessToken string) (*token.Principal, error) {
	p, err := s.authenticator.Verify(accessToken, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.checkRevoked(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *service) ChangePassword(ctx context.Context, p *token.Principal, params ChangePasswordParams) error {
	u, err := s.users.Find(ctx, p.Subject)
	if err != nil {
		return fmt.Errorf("find user %s: %w", p.Subject, err)
	}

	ok, err := s.hasher.Verify(params.CurrentPassword, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify current password for user %s: %w", u.ID, err)
	}

	if !ok {
		return ErrIncorrectPassword
	}

	newHash, err := s.hasher.Hash(params.NewPassword)
	if err != nil {
		return fmt.Errorf("hash new password for user %s: %w", u.ID, err)
	}

	if err := s.users.UpdatePassword(ctx, u.ID, newHash); err != nil {
		return fmt.Errorf("update password for user %s: %w", u.ID, err)
	}

	slog.Info("password changed", "user_id", u.ID)
	return nil
}

func (s *service) Me(ctx context.Context, p *token.Principal) (*user.User, error) {
	return s.users.Find(ctx, p.Subject)
}

// PurgeRevoked removes deny-list entries whose tokens have expired.
func (s *service) PurgeRevoked(ctx context.Context) (int64, error) {
	n, err := s.revocations.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	s.metrics.Purged(n)
	return n, nil
}

func (s *service) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(unknownUserPassword)
		if err != nil {
			slog.Error("failed to hash the unknown user password", "reason", err)
			return
		}
		s.dummyHash = h
	})

	if s.dummyHash == "" {
		return
	}

	if _, err := s.hasher.Verify(password, s.dummyHash); err != nil {
		slog.Error("failed to verify against the unknown user hash", "reason", err)
	}
}

func (s *service) checkRevoked(ctx context.Context, p *token.Principal) error {
	revoked, err := s.revocations.IsRevoked(ctx, p.TokenID)
	if err != nil {
		return fmt.Errorf("check revocation: %w", err)
	}

	if revoked {
		s.metrics.RevokedUse(p.Type)
		return ErrRevoked
	}

	return nil
}

func (s *service) issueSession(subject string, role token.Role) (*Session, error) {
	now := s.now()

	access, err := s.authenticator.Issue(subject, role, now)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.authenticator.IssueRefresh(subject, role, now)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &Session{Access: access, Refresh: refresh}, nil
}
