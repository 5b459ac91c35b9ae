// Package web provides the HTTP server and JSON API for estatedesk.
package web

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mfortin/estatedesk/internal/auth"
	"github.com/mfortin/estatedesk/internal/calendar"
	"github.com/mfortin/estatedesk/internal/lead"
	"github.com/mfortin/estatedesk/internal/logging"
	"github.com/mfortin/estatedesk/internal/property"
	"github.com/mfortin/estatedesk/internal/visit"
)

// Server is the agency HTTP server.
type Server struct {
	cfg      auth.Config
	users    *auth.UserStore
	sessions *auth.SessionStore
	tokens   *auth.TokenStore
	mailer   *auth.Mailer
	props    *property.Repository
	visits   *visit.Repository
	leads    *lead.Repository
	creds    *calendar.CredentialStore
	oauth    *calendar.OAuthService
	engine   *calendar.Engine
	mux      *http.ServeMux
}

// NewServer creates a server with the given database and configuration.
func NewServer(db *sql.DB, cfg auth.Config, calCfg calendar.Config) (*Server, error) {
	visits := visit.NewRepository(db)
	creds := calendar.NewCredentialStore(db)
	oauth := calendar.NewOAuthService(calCfg)
	provider := calendar.NewEventCreator(calCfg)

	s := &Server{
		cfg:      cfg,
		users:    auth.NewUserStore(db),
		sessions: auth.NewSessionStore(db),
		tokens:   auth.NewTokenStore(db),
		mailer:   auth.NewMailer(cfg),
		props:    property.NewRepository(db),
		visits:   visits,
		leads:    lead.NewRepository(db),
		creds:    creds,
		oauth:    oauth,
		engine:   calendar.NewEngine(creds, visits, oauth, provider),
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/settings", s.handleSettings)

	s.mux.HandleFunc("/auth/login", s.handleLoginSubmit)
	s.mux.HandleFunc("/auth/verify", s.handleVerify)
	s.mux.HandleFunc("/auth/logout", s.handleLogout)

	s.mux.HandleFunc("/calendar/connect", s.handleCalendarConnect)
	s.mux.HandleFunc("/calendar/callback", s.handleCalendarCallback)
	s.mux.HandleFunc("/api/calendar/status", s.handleCalendarStatus)
	s.mux.HandleFunc("/api/calendar/disconnect", s.handleCalendarDisconnect)
	s.mux.HandleFunc("/api/calendar/sync", s.handleCalendarSync)

	s.mux.HandleFunc("/api/visits", s.handleAPIVisits)
	s.mux.HandleFunc("/api/visits/", s.handleAPIVisitRoute)
	s.mux.HandleFunc("/api/leads", s.handleAPILeads)
	s.mux.HandleFunc("/api/leads/", s.handleAPILeadRoute)
	s.mux.HandleFunc("/api/properties", s.handleAPIProperties)
	s.mux.HandleFunc("/api/properties/", s.handleAPIPropertyRoute)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server with request logging.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Starting estatedesk on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, logging.RequestLogger(s))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleSettings is the landing spot after calendar redirects. It
// reports the current user's connection state and echoes any calendar
// result flags from the query string.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	connected, err := s.creds.IsConnected(user.ID)
	if err != nil {
		apiError(w, "checking calendar connection", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{
		"email":     user.Email,
		"role":      user.Role,
		"connected": connected,
	}
	if flag := r.URL.Query().Get("calendar"); flag != "" {
		resp["calendar"] = flag
	}
	if reason := r.URL.Query().Get("reason"); reason != "" {
		resp["reason"] = reason
	}

	apiJSON(w, resp, http.StatusOK)
}

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// currentUser resolves the session cookie to a user record.
func (s *Server) currentUser(r *http.Request) (*auth.User, error) {
	email, err := s.sessions.Validate(r)
	if err != nil {
		return nil, err
	}
	return s.users.GetByEmail(email)
}

// requireUser writes a 401 and returns false when no verified actor exists.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, err := s.currentUser(r)
	if err != nil {
		apiError(w, "authentication required", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}

// requireAdmin writes a 401 or 403 and returns false unless the caller
// holds a privileged role. Checked on every call, never cached.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, err := s.currentUser(r)
	if err != nil {
		apiError(w, "authentication required", http.StatusUnauthorized)
		return nil, false
	}
	if !user.Role.IsPrivileged() {
		apiError(w, "admin access required", http.StatusForbidden)
		return nil, false
	}
	return user, true
}
