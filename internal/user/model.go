package user

import (
	"log/slog"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/token"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         token.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LogValue keeps the password hash out of the logs.
func (u User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", u.ID),
		slog.String("email", u.Email),
		slog.String("role", u.Role.String()),
	)
}

type CreateParams struct {
	Email        string
	PasswordHash string
	Role         token.Role
}
