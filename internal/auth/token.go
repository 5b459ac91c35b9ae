package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// loginLinkTTL bounds how long a magic link stays redeemable.
const loginLinkTTL = 15 * time.Minute

// ErrInvalidToken covers unknown, already-used, and expired login
// tokens alike; callers cannot tell the cases apart.
var ErrInvalidToken = errors.New("invalid or expired login token")

// TokenStore manages single-use magic link tokens in SQLite.
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore creates a token store.
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Create issues a magic link token for the given email.
// Returns the raw token string.
func (s *TokenStore) Create(email string) (string, error) {
	token, err := randomHex(32)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}

	if _, err := s.db.Exec(
		"INSERT INTO auth_tokens (token, email, expires_at) VALUES (?, ?, ?)",
		token, strings.ToLower(strings.TrimSpace(email)),
		time.Now().UTC().Add(loginLinkTTL),
	); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}

	return token, nil
}

// Validate consumes a token and returns the email it was issued for.
// The used flag flips in the same statement that checks it, so a token
// redeems at most once even under concurrent requests.
func (s *TokenStore) Validate(token string) (string, error) {
	res, err := s.db.Exec(
		"UPDATE auth_tokens SET used = 1 WHERE token = ? AND used = 0 AND expires_at > ?",
		token, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("consuming token: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return "", ErrInvalidToken
	}

	var email string
	if err := s.db.QueryRow(
		"SELECT email FROM auth_tokens WHERE token = ?", token,
	).Scan(&email); err != nil {
		return "", fmt.Errorf("reading token email: %w", err)
	}

	return email, nil
}

// Cleanup removes expired tokens.
func (s *TokenStore) Cleanup() error {
	if _, err := s.db.Exec(
		"DELETE FROM auth_tokens WHERE expires_at < ?",
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("cleaning up tokens: %w", err)
	}
	return nil
}

// randomHex returns n random bytes hex-encoded. Shared by login tokens
// and session IDs.
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
