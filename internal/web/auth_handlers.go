package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mfortin/estatedesk/internal/auth"
)

// handleLoginSubmit processes a login request. Always answers the same
// way regardless of whether the email is known, to prevent enumeration.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		apiError(w, "email is required", http.StatusBadRequest)
		return
	}

	// Only issue a token for registered users or the bootstrap admin
	known := email == strings.ToLower(s.cfg.AdminEmail)
	if !known {
		if _, err := s.users.GetByEmail(email); err == nil {
			known = true
		}
	}

	if known {
		token, err := s.tokens.Create(email)
		if err != nil {
			slog.Error("creating login token", "error", err)
		} else if _, err := s.mailer.SendMagicLink(email, token); err != nil {
			slog.Error("sending magic link", "email", email, "error", err)
		}
	}

	apiJSON(w, map[string]string{
		"message": "If that email is registered, a login link has been sent.",
	}, http.StatusOK)
}

// handleVerify validates a magic link token and creates a session.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		apiError(w, "missing token", http.StatusBadRequest)
		return
	}

	email, err := s.tokens.Validate(token)
	if err != nil {
		apiError(w, "invalid or expired login link", http.StatusUnauthorized)
		return
	}

	// Bootstrap: the configured admin email becomes a super admin on
	// first login.
	if _, err := s.users.GetByEmail(email); err != nil {
		if !strings.EqualFold(email, s.cfg.AdminEmail) {
			apiError(w, "unknown user", http.StatusUnauthorized)
			return
		}
		if _, err := s.users.Add(email, "", "", auth.RoleSuperAdmin); err != nil {
			slog.Error("bootstrapping admin user", "error", err)
			apiError(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	if err := s.sessions.Create(w, email); err != nil {
		slog.Error("creating session", "error", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// handleLogout destroys the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(w, r); err != nil {
		slog.Error("destroying session", "error", err)
	}
	apiJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
