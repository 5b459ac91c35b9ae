package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mfortin/estatedesk/internal/lead"
)

// handleAPILeads routes /api/leads: public capture or admin listing.
func (s *Server) handleAPILeads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.apiListLeads(w, r)
	case http.MethodPost:
		s.apiCaptureLead(w, r)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAPILeadRoute routes /api/leads/{id}/status and /api/leads/{id}.
func (s *Server) handleAPILeadRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/leads/")

	if strings.HasSuffix(path, "/status") {
		idStr := strings.TrimSuffix(path, "/status")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiError(w, "invalid lead ID", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiSetLeadStatus(w, r, id)
		return
	}

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid lead ID", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodDelete {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.apiDeleteLead(w, r, id)
}

// apiCaptureLead records a lead from the public sell/search wizards.
// No authentication: prospects aren't logged in.
func (s *Server) apiCaptureLead(w http.ResponseWriter, r *http.Request) {
	var req lead.Lead
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	l, err := s.leads.Add(&req)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	apiJSON(w, map[string]interface{}{"success": true, "lead": l}, http.StatusCreated)
}

// apiListLeads returns the pipeline, optionally filtered by status.
func (s *Server) apiListLeads(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	status := lead.Status(r.URL.Query().Get("status"))
	if status != "" && !lead.ValidStatus(string(status)) {
		apiError(w, "invalid status filter", http.StatusBadRequest)
		return
	}

	leads, err := s.leads.List(status)
	if err != nil {
		apiError(w, "listing leads", http.StatusInternalServerError)
		return
	}

	apiJSON(w, leads, http.StatusOK)
}

// apiSetLeadStatus moves a lead along the pipeline.
func (s *Server) apiSetLeadStatus(w http.ResponseWriter, r *http.Request, id int64) {
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
	if req.Status == "" || !lead.ValidStatus(req.Status) {
		apiError(w, "invalid status", http.StatusBadRequest)
		return
	}

	if err := s.leads.SetStatus(id, lead.Status(req.Status)); err != nil {
		apiError(w, "updating lead", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"success": true, "status": req.Status}, http.StatusOK)
}

// apiDeleteLead removes a lead from the pipeline.
func (s *Server) apiDeleteLead(w http.ResponseWriter, r *http.Request, id int64) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	if err := s.leads.Delete(id); err != nil {
		apiError(w, "deleting lead", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
