// Package auth is the session collaborator: password hashing and
// stateless bearer tokens carrying the data owner's identity. The rest
// of the system only ever sees a core.Session.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"moneywise/internal/core"
)

var (
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrWeakPassword      = errors.New("password must be at least 6 characters")
)

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// HashPassword bcrypt-hashes a password after the minimum-length check.
func HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken signs a bearer token for the user.
func (m *Manager) IssueToken(user core.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns the session it carries.
func (m *Manager) ParseToken(raw string) (core.Session, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return core.Session{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return core.Session{}, ErrInvalidToken
	}
	return core.Session{UserID: c.Subject, Email: c.Email}, nil
}

// FromAuthorizationHeader extracts the session from a Bearer header.
func (m *Manager) FromAuthorizationHeader(header string) (core.Session, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return core.Session{}, ErrInvalidToken
	}
	return m.ParseToken(strings.TrimSpace(strings.TrimPrefix(header, prefix)))
}
