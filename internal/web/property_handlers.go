package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mfortin/estatedesk/internal/property"
)

// handleAPIProperties routes /api/properties: public listing or admin add.
func (s *Server) handleAPIProperties(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.apiListProperties(w, r)
	case http.MethodPost:
		s.apiAddProperty(w, r)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAPIPropertyRoute routes /api/properties/{id}.
func (s *Server) handleAPIPropertyRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/properties/")

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid property ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.apiGetProperty(w, id)
	case http.MethodDelete:
		s.apiDeleteProperty(w, r, id)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// apiListProperties returns listings with optional filters. Public.
func (s *Server) apiListProperties(w http.ResponseWriter, r *http.Request) {
	opts := property.ListOptions{
		City: r.URL.Query().Get("city"),
	}

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		if !property.ValidListingStatus(statusStr) {
			apiError(w, "invalid status filter", http.StatusBadRequest)
			return
		}
		opts.Status = property.ListingStatus(statusStr)
	}

	if maxStr := r.URL.Query().Get("max_price"); maxStr != "" {
		max, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil {
			apiError(w, "max_price must be a number", http.StatusBadRequest)
			return
		}
		opts.MaxPrice = &max
	}

	props, err := s.props.List(opts)
	if err != nil {
		apiError(w, "listing properties", http.StatusInternalServerError)
		return
	}

	apiJSON(w, props, http.StatusOK)
}

// apiGetProperty returns a single listing. Public.
func (s *Server) apiGetProperty(w http.ResponseWriter, id int64) {
	p, err := s.props.GetByID(id)
	if err != nil {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}

	apiJSON(w, p, http.StatusOK)
}

// apiAddProperty creates a listing. Admin only.
func (s *Server) apiAddProperty(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	var req property.Property
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := s.props.Insert(&req)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	apiJSON(w, map[string]interface{}{"success": true, "property": p}, http.StatusCreated)
}

// apiDeleteProperty removes a listing. Admin only.
func (s *Server) apiDeleteProperty(w http.ResponseWriter, r *http.Request, id int64) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	if err := s.props.Delete(id); err != nil {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}

	apiJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
