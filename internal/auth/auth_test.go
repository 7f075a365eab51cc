package auth

import (
	"errors"
	"testing"
	"time"

	"moneywise/internal/core"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("segreto1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "segreto1" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword("segreto1", hash) {
		t.Fatal("correct password must verify")
	}
	if CheckPassword("sbagliata", hash) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("abc"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("want ErrWeakPassword, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("0123456789abcdef", time.Hour)
	user := core.User{ID: "user-1", Email: "mario@example.com"}

	token, err := m.IssueToken(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	session, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if session.UserID != "user-1" || session.Email != "mario@example.com" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestParseTokenRejectsGarbageAndWrongKey(t *testing.T) {
	m := NewManager("0123456789abcdef", time.Hour)

	if _, err := m.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}

	other := NewManager("fedcba9876543210", time.Hour)
	token, err := other.IssueToken(core.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token signed with another key must fail, got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	m := NewManager("0123456789abcdef", -time.Minute)
	token, err := m.IssueToken(core.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token must fail, got %v", err)
	}
}

func TestFromAuthorizationHeader(t *testing.T) {
	m := NewManager("0123456789abcdef", time.Hour)
	token, err := m.IssueToken(core.User{ID: "user-1", Email: "a@b.it"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	session, err := m.FromAuthorizationHeader("Bearer " + token)
	if err != nil {
		t.Fatalf("parse header: %v", err)
	}
	if session.UserID != "user-1" {
		t.Fatalf("unexpected session: %+v", session)
	}

	if _, err := m.FromAuthorizationHeader(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatal("missing Bearer prefix must fail")
	}
	if _, err := m.FromAuthorizationHeader(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatal("empty header must fail")
	}
}
