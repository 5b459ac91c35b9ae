package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mfortin/estatedesk/internal/visit"
)

// handleAPIVisits routes /api/visits: list (admin) or create.
func (s *Server) handleAPIVisits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.apiListVisits(w, r)
	case http.MethodPost:
		s.apiCreateVisit(w, r)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAPIVisitRoute routes /api/visits/{id} and /api/visits/{id}/status.
func (s *Server) handleAPIVisitRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/visits/")

	if strings.HasSuffix(path, "/status") {
		idStr := strings.TrimSuffix(path, "/status")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiError(w, "invalid visit ID", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiSetVisitStatus(w, r, id)
		return
	}

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid visit ID", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodDelete {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.apiDeleteVisit(w, r, id)
}

// apiCreateVisit books a viewing for the authenticated user. The
// status is always pending, whatever the request claims.
func (s *Server) apiCreateVisit(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		PropertyID  int64  `json:"property_id"`
		ScheduledAt string `json:"scheduled_at"`
		Notes       string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.PropertyID == 0 {
		apiError(w, "property_id is required", http.StatusBadRequest)
		return
	}
	if req.ScheduledAt == "" {
		apiError(w, "scheduled_at is required", http.StatusBadRequest)
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		apiError(w, "scheduled_at must be RFC 3339", http.StatusBadRequest)
		return
	}

	v, err := s.visits.Create(req.PropertyID, user.ID, scheduledAt, req.Notes)
	if err != nil {
		apiError(w, "creating visit", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"success": true, "visit": v}, http.StatusCreated)
}

// apiListVisits returns every visit; the pipeline view is admin-only.
func (s *Server) apiListVisits(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	visits, err := s.visits.List()
	if err != nil {
		apiError(w, "listing visits", http.StatusInternalServerError)
		return
	}

	apiJSON(w, visits, http.StatusOK)
}

// apiSetVisitStatus moves a visit to a new workflow status.
func (s *Server) apiSetVisitStatus(w http.ResponseWriter, r *http.Request, id int64) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		apiError(w, "status is required", http.StatusBadRequest)
		return
	}

	err := s.visits.SetStatus(id, visit.Status(req.Status))
	if errors.Is(err, visit.ErrInvalidStatus) {
		apiError(w, "invalid status", http.StatusBadRequest)
		return
	}
	if errors.Is(err, visit.ErrNotFound) {
		apiError(w, "visit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		apiError(w, "updating visit", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"success": true, "status": req.Status}, http.StatusOK)
}

// apiDeleteVisit permanently removes a visit.
func (s *Server) apiDeleteVisit(w http.ResponseWriter, r *http.Request, id int64) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	err := s.visits.Delete(id)
	if errors.Is(err, visit.ErrNotFound) {
		apiError(w, "visit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		apiError(w, "deleting visit", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
