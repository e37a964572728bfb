package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/platform/db"
)

// RevocationRepository is a deny-list of token ids. Entries are kept until
// the token they name would have expired anyway.
type RevocationRepository interface {
	// Revoke adds tokenID to the deny-list. It reports false when the id was already there,
	// which means another request consumed the credential first.
	Revoke(ctx context.Context, tokenID, subject string, expiresAt time.Time) (bool, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type SQLRevocationRepository struct {
	db db.Executor
}

var _ RevocationRepository = (*SQLRevocationRepository)(nil)

func NewRevocationRepository(dbExec db.Executor) *SQLRevocationRepository {
	return &SQLRevocationRepository{db: dbExec}
}

const QueryRevoke = `
INSERT INTO revoked_tokens (jti, subject, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (jti) DO NOTHING`

func (r *SQLRevocationRepository) Revoke(ctx context.Context, tokenID, subject string, expiresAt time.Time) (bool, error) {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, QueryRevoke, tokenID, subject, expiresAt.UTC())
	if err != nil {
		return false, fmt.Errorf("revoke token %s: %w", tokenID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("revoke token %s: rows affected: %w", tokenID, err)
	}

	return n == 1, nil
}

const QueryIsRevoked = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`

func (r *SQLRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	if err := db.Conn(ctx, r.db).QueryRowContext(ctx, QueryIsRevoked, tokenID).Scan(&revoked); err != nil {
		return false, fmt.Errorf("check revocation of token %s: %w", tokenID, err)
	}
	return revoked, nil
}

const QueryPurgeExpired = `DELETE FROM revoked_tokens WHERE expires_at <= $1`

func (r *SQLRevocationRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, QueryPurgeExpired, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired revocations: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired revocations: rows affected: %w", err)
	}

	return n, nil
}
