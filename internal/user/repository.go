package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferdiebergado/tokenkit/internal/platform/db"
	"github.com/ferdiebergado/tokenkit/internal/token"
)

var (
	ErrNotFound  = errors.New("user repository: user not found")
	ErrDuplicate = errors.New("user repository: user already exists")
)

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	Find(ctx context.Context, userID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateRole(ctx context.Context, userID string, role token.Role) error
}

type SQLRepository struct {
	db db.Executor
}

var _ Repository = (*SQLRepository)(nil)

func NewRepository(dbExec db.Executor) *SQLRepository {
	return &SQLRepository{db: dbExec}
}

const QueryUserCreate = `
INSERT INTO users (email, password_hash, role)
VALUES ($1, $2, $3)
RETURNING id, email, role, created_at, updated_at`

func (r *SQLRepository) Create(ctx context.Context, params CreateParams) (*User, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, QueryUserCreate, params.Email, params.PasswordHash, params.Role)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &u, nil
}

const QueryUserFind = `
SELECT id, email, password_hash, role, created_at, updated_at
FROM users
WHERE id = $1`

func (r *SQLRepository) Find(ctx context.Context, userID string) (*User, error) {
	return r.findOne(ctx, QueryUserFind, userID)
}

const QueryUserFindByEmail = `
SELECT id, email, password_hash, role, created_at, updated_at
FROM users
WHERE lower(email) = $1
LIMIT 1`

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, QueryUserFindByEmail, email)
}

func (r *SQLRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	row := db.Conn(ctx, r.db).QueryRowContext(ctx, query, arg)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &u, nil
}

const QueryUserList = `
SELECT id, email, role, created_at, updated_at
FROM users
ORDER BY created_at`

func (r *SQLRepository) List(ctx context.Context) ([]User, error) {
	rows, err := db.Conn(ctx, r.db).QueryContext(ctx, QueryUserList)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	//nolint:prealloc //Cannot identify the length of the rows without running another query.
	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over user rows: %w", err)
	}

	return users, nil
}

const QueryUserUpdatePassword = `
UPDATE users
SET password_hash = $1, updated_at = NOW()
WHERE id = $2`

func (r *SQLRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.update(ctx, QueryUserUpdatePassword, passwordHash, userID)
}

const QueryUserUpdateRole = `
UPDATE users
SET role = $1, updated_at = NOW()
WHERE id = $2`

func (r *SQLRepository) UpdateRole(ctx context.Context, userID string, role token.Role) error {
	return r.update(ctx, QueryUserUpdateRole, role, userID)
}

func (r *SQLRepository) update(ctx context.Context, query string, args ...any) error {
	res, err := db.Conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: rows affected: %w", err)
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}
