package calendar

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// stateMaxAge bounds how long an OAuth round-trip may take.
const stateMaxAge = 15 * time.Minute

// StateToken ties an OAuth redirect round-trip to the user who started
// it. It is never persisted; the provider echoes it back verbatim.
type StateToken struct {
	UserID   int64     `json:"user_id"`
	Nonce    string    `json:"nonce"`
	IssuedAt time.Time `json:"issued_at"`
}

// NewStateToken creates a state token for the given user.
func NewStateToken(userID int64) StateToken {
	return StateToken{
		UserID:   userID,
		Nonce:    uuid.NewString(),
		IssuedAt: time.Now().UTC(),
	}
}

// Encode serializes the token for the state query parameter.
func (t StateToken) Encode() (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encoding state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeStateToken parses an encoded state parameter.
func DecodeStateToken(encoded string) (StateToken, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return StateToken{}, fmt.Errorf("decoding state: %w", err)
	}

	var t StateToken
	if err := json.Unmarshal(data, &t); err != nil {
		return StateToken{}, fmt.Errorf("parsing state: %w", err)
	}

	return t, nil
}

// Verify checks that the state belongs to the given user and is fresh.
func (t StateToken) Verify(userID int64) error {
	if t.UserID != userID {
		return fmt.Errorf("state user mismatch")
	}
	if time.Since(t.IssuedAt) > stateMaxAge {
		return fmt.Errorf("state expired")
	}
	return nil
}
