package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"moneywise/internal/core"
)

func (r *Repository) CreateUser(ctx context.Context, u core.User, passwordHash string) (core.User, error) {
	if strings.TrimSpace(u.Email) == "" {
		return core.User{}, core.ErrEmptyEmail
	}

	u.ID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	var exists int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM users WHERE email = ?", u.Email).Scan(&exists); err != nil {
		return core.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return core.User{}, core.ErrEmailTaken
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, passwordHash, u.FirstName, u.LastName)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", u.ID, "email", u.Email)
	return u, nil
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		u    core.User
		hash string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name
		FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &hash, &u.FirstName, &u.LastName)
	if err != nil {
		return core.User{}, "", core.ErrNotFound
	}
	return u, hash, nil
}
