package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenCreateAndValidate(t *testing.T) {
	store := NewTokenStore(testDB(t))

	token, err := store.Create("Agent@Example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	email, err := store.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if email != "agent@example.com" {
		t.Errorf("email = %q, want lowercased agent@example.com", email)
	}
}

func TestTokenSingleUse(t *testing.T) {
	store := NewTokenStore(testDB(t))

	token, err := store.Create("agent@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.Validate(token); err != nil {
		t.Fatalf("first validate: %v", err)
	}
	if _, err := store.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("second use err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenExpired(t *testing.T) {
	d := testDB(t)
	store := NewTokenStore(d)

	if _, err := d.Exec(
		"INSERT INTO auth_tokens (token, email, expires_at) VALUES (?, ?, ?)",
		"stale-token", "agent@example.com", time.Now().UTC().Add(-time.Minute),
	); err != nil {
		t.Fatalf("insert token: %v", err)
	}

	if _, err := store.Validate("stale-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenUnknown(t *testing.T) {
	store := NewTokenStore(testDB(t))

	if _, err := store.Validate("nope"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenCleanup(t *testing.T) {
	d := testDB(t)
	store := NewTokenStore(d)

	if _, err := d.Exec(
		"INSERT INTO auth_tokens (token, email, expires_at) VALUES (?, ?, ?)",
		"stale-token", "agent@example.com", time.Now().UTC().Add(-time.Minute),
	); err != nil {
		t.Fatalf("insert token: %v", err)
	}
	fresh, err := store.Create("agent@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM auth_tokens").Scan(&count); err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d tokens after cleanup, want 1", count)
	}

	if _, err := store.Validate(fresh); err != nil {
		t.Errorf("fresh token should survive cleanup: %v", err)
	}
}
