package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneywise/internal/auth"
	"moneywise/internal/core"
	"moneywise/internal/store"
)

type UserService struct {
	users      store.UserRepository
	categories store.CategoryRepository
	tokens     *auth.Manager
}

func NewUserService(users store.UserRepository, categories store.CategoryRepository, tokens *auth.Manager) *UserService {
	return &UserService{users: users, categories: categories, tokens: tokens}
}

// Signup registers the user, seeds the default category catalog, and
// returns a signed session token.
func (s *UserService) Signup(ctx context.Context, email, password, firstName, lastName string) (core.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return core.User{}, "", err
	}

	user, err := s.users.CreateUser(ctx, core.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}, hash)
	if err != nil {
		return core.User{}, "", fmt.Errorf("create user: %w", err)
	}

	// Seeding failures are not fatal; the list endpoint falls back to
	// the catalog names and a retry reseeds.
	sess := core.Session{UserID: user.ID, Email: user.Email}
	if _, err := s.categories.InitializeDefaultCategories(ctx, sess); err != nil {
		slog.ErrorContext(ctx, "Failed to seed default categories",
			"user", user.ID, "error", err)
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return core.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns a signed session token. A
// missing user and a wrong password are indistinguishable to callers.
func (s *UserService) Login(ctx context.Context, email, password string) (core.User, string, error) {
	user, hash, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, "", auth.ErrInvalidCredential
		}
		return core.User{}, "", fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPassword(password, hash) {
		return core.User{}, "", auth.ErrInvalidCredential
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return core.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}
