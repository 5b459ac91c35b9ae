// Package calendar provides Google Calendar connection, credential
// storage, and synchronization of upcoming visits.
package calendar

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoCredential is returned when a user has no stored calendar tokens.
var ErrNoCredential = errors.New("no calendar credential")

// Credential holds a user's OAuth tokens for the calendar provider.
type Credential struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token needs refreshing.
func (c *Credential) Expired() bool {
	return !time.Now().Before(c.ExpiresAt)
}

// CredentialStore persists calendar credentials in SQLite,
// one row per user.
type CredentialStore struct {
	db *sql.DB
}

// NewCredentialStore creates a credential store.
func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Save upserts the credential for a user, replacing any existing row.
func (s *CredentialStore) Save(cred *Credential) error {
	if cred.UserID == 0 {
		return fmt.Errorf("user ID is required")
	}

	if _, err := s.db.Exec(
		`INSERT INTO calendar_credentials (user_id, access_token, refresh_token, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   access_token = excluded.access_token,
		   refresh_token = excluded.refresh_token,
		   expires_at = excluded.expires_at,
		   updated_at = CURRENT_TIMESTAMP`,
		cred.UserID, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt.UTC(),
	); err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}

	return nil
}

// Get returns the credential for a user, or ErrNoCredential.
func (s *CredentialStore) Get(userID int64) (*Credential, error) {
	var cred Credential
	err := s.db.QueryRow(
		"SELECT user_id, access_token, refresh_token, expires_at FROM calendar_credentials WHERE user_id = ?",
		userID,
	).Scan(&cred.UserID, &cred.AccessToken, &cred.RefreshToken, &cred.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("querying credential: %w", err)
	}

	return &cred, nil
}

// Delete removes a user's credential. Deleting an absent row is not
// an error; disconnect is idempotent.
func (s *CredentialStore) Delete(userID int64) error {
	if _, err := s.db.Exec(
		"DELETE FROM calendar_credentials WHERE user_id = ?", userID,
	); err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}
	return nil
}

// IsConnected reports whether a credential row exists for the user.
// It does not check token freshness.
func (s *CredentialStore) IsConnected(userID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM calendar_credentials WHERE user_id = ?", userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking connection: %w", err)
	}
	return count > 0, nil
}
