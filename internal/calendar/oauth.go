package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	// ErrNotConfigured is returned when the Google OAuth client
	// credentials are missing from the environment.
	ErrNotConfigured = errors.New("calendar integration not configured")

	// ErrExchangeFailed wraps a rejected authorization code. Codes are
	// single-use; the exchange is never retried.
	ErrExchangeFailed = errors.New("authorization code exchange failed")

	// ErrRefreshFailed wraps a rejected refresh token. The caller must
	// treat the credential as disconnected and prompt a reconnect.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// Config holds the Google OAuth client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv(baseURL string) Config {
	return Config{
		ClientID:     os.Getenv("ED_GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("ED_GOOGLE_CLIENT_SECRET"),
		RedirectURL:  baseURL + "/calendar/callback",
	}
}

// IsConfigured returns true if client credentials are present.
func (c Config) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// OAuthService exchanges and refreshes Google Calendar tokens.
type OAuthService struct {
	oauth *oauth2.Config
}

// NewOAuthService creates the OAuth service for the calendar scope.
func NewOAuthService(cfg Config) *OAuthService {
	return &OAuthService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/calendar.events",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthorizationURL builds the provider consent URL embedding the state.
// Offline access is requested so a refresh token comes back.
func (s *OAuthService) AuthorizationURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange turns an authorization code into a credential for the user.
func (s *OAuthService) Exchange(ctx context.Context, userID int64, code string) (*Credential, error) {
	if s.oauth.ClientID == "" || s.oauth.ClientSecret == "" {
		return nil, ErrNotConfigured
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	return &Credential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

// RefreshIfExpired returns the credential unchanged while the access
// token is still valid, otherwise swaps the refresh token for a new
// one. It never deletes stored state; on ErrRefreshFailed the caller
// decides whether to disconnect.
func (s *OAuthService) RefreshIfExpired(ctx context.Context, cred *Credential) (*Credential, error) {
	if !cred.Expired() {
		return cred, nil
	}

	source := s.oauth.TokenSource(ctx, &oauth2.Token{
		RefreshToken: cred.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	})

	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	refreshed := &Credential{
		UserID:       cred.UserID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if refreshed.RefreshToken == "" {
		// Google omits the refresh token when it hasn't rotated
		refreshed.RefreshToken = cred.RefreshToken
	}

	return refreshed, nil
}

// token converts a credential to the oauth2 form used by API clients.
func (s *OAuthService) token(cred *Credential) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.ExpiresAt,
	}
}
