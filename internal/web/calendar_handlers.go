package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mfortin/estatedesk/internal/calendar"
)

// settingsRedirect sends the browser back to the settings view with a
// machine-readable result flag instead of an error page.
func settingsRedirect(w http.ResponseWriter, r *http.Request, flag, reason string) {
	target := "/settings?calendar=" + flag
	if reason != "" {
		target += "&reason=" + reason
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleCalendarConnect starts the OAuth round-trip for an admin.
func (s *Server) handleCalendarConnect(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}

	state, err := calendar.NewStateToken(user.ID).Encode()
	if err != nil {
		slog.Error("encoding oauth state", "error", err)
		settingsRedirect(w, r, "error", "unknown")
		return
	}

	http.Redirect(w, r, s.oauth.AuthorizationURL(state), http.StatusSeeOther)
}

// handleCalendarCallback completes the OAuth round-trip. Failures
// redirect back to settings with an error tag so the user keeps
// their context.
func (s *Server) handleCalendarCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("error") != "" {
		settingsRedirect(w, r, "error", "denied")
		return
	}

	code := q.Get("code")
	if code == "" {
		settingsRedirect(w, r, "error", "no_code")
		return
	}

	user, err := s.currentUser(r)
	if err != nil {
		settingsRedirect(w, r, "error", "not_authenticated")
		return
	}

	state, err := calendar.DecodeStateToken(q.Get("state"))
	if err != nil {
		settingsRedirect(w, r, "error", "state_mismatch")
		return
	}
	if err := state.Verify(user.ID); err != nil {
		settingsRedirect(w, r, "error", "state_mismatch")
		return
	}

	cred, err := s.oauth.Exchange(r.Context(), user.ID, code)
	if err != nil {
		slog.Warn("oauth exchange failed", "user", user.ID, "error", err)
		settingsRedirect(w, r, "error", "unknown")
		return
	}

	if err := s.creds.Save(cred); err != nil {
		slog.Error("saving calendar credential", "user", user.ID, "error", err)
		settingsRedirect(w, r, "error", "unknown")
		return
	}

	settingsRedirect(w, r, "connected", "")
}

// handleCalendarStatus reports whether the caller has a stored
// credential. Callers without a session simply aren't connected;
// the endpoint never fails on authentication.
func (s *Server) handleCalendarStatus(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		apiJSON(w, map[string]bool{"connected": false}, http.StatusOK)
		return
	}

	connected, err := s.creds.IsConnected(user.ID)
	if err != nil {
		apiError(w, "checking calendar connection", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]bool{"connected": connected}, http.StatusOK)
}

// handleCalendarDisconnect deletes the caller's stored tokens.
func (s *Server) handleCalendarDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	if err := s.creds.Delete(user.ID); err != nil {
		apiError(w, "disconnecting calendar", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// handleCalendarSync pushes the caller's eligible visits to their calendar.
func (s *Server) handleCalendarSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	result, err := s.engine.Run(r.Context(), user.ID)
	if errors.Is(err, calendar.ErrNotConnected) {
		apiError(w, "calendar not connected", http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("calendar sync failed", "user", user.ID, "error", err)
		apiError(w, "calendar sync failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{
		"message": "calendar sync complete",
		"synced":  result.Synced,
	}, http.StatusOK)
}
