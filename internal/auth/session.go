package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	sessionTTL    = 30 * 24 * time.Hour
	sessionCookie = "ed_session"
)

// ErrInvalidSession covers missing, unknown, and expired sessions.
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionStore manages browser sessions in SQLite.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a session store.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create opens a session for the given email and sets the cookie.
func (s *SessionStore) Create(w http.ResponseWriter, email string) error {
	id, err := randomHex(32)
	if err != nil {
		return fmt.Errorf("generating session ID: %w", err)
	}

	expiresAt := time.Now().UTC().Add(sessionTTL)

	if _, err := s.db.Exec(
		"INSERT INTO sessions (id, email, expires_at) VALUES (?, ?, ?)",
		id, strings.ToLower(strings.TrimSpace(email)), expiresAt,
	); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	http.SetCookie(w, sessionCookieFor(id, expiresAt))
	return nil
}

// Validate resolves the session cookie to an email. Expiry is enforced
// in the query; expired rows linger until Cleanup.
func (s *SessionStore) Validate(r *http.Request) (string, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", ErrInvalidSession
	}

	var email string
	err = s.db.QueryRow(
		"SELECT email FROM sessions WHERE id = ? AND expires_at > ?",
		cookie.Value, time.Now().UTC(),
	).Scan(&email)
	if err == sql.ErrNoRows {
		return "", ErrInvalidSession
	}
	if err != nil {
		return "", fmt.Errorf("querying session: %w", err)
	}

	return email, nil
}

// Destroy removes the session and clears the cookie. Destroying an
// absent session is not an error.
func (s *SessionStore) Destroy(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", cookie.Value); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	http.SetCookie(w, sessionCookieFor("", time.Time{}))
	return nil
}

// Cleanup removes expired sessions.
func (s *SessionStore) Cleanup() error {
	if _, err := s.db.Exec(
		"DELETE FROM sessions WHERE expires_at < ?",
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("cleaning up sessions: %w", err)
	}
	return nil
}

// sessionCookieFor builds the session cookie. An empty value produces
// the deletion form of the cookie.
func sessionCookieFor(value string, expiresAt time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	} else {
		c.Expires = expiresAt
	}
	return c
}
