package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE raised by postgres when an insert collides with a unique constraint.
const codeUniqueViolation = "23505"

// Executor is satisfied by both *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager scopes a unit of work, such as a refresh token rotation, to one transaction.
type TxManager interface {
	// RunInTx executes fn within a database transaction. The context passed to
	// fn carries the transaction; repositories pick it up with Conn. The
	// transaction is committed when fn returns nil and rolled back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// IsUniqueViolation reports whether err is a postgres unique constraint violation,
// e.g. registering an email that is already taken.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
