package web

import (
	"net/http"
	"testing"
	"time"

	"github.com/mfortin/estatedesk/internal/auth"
	"github.com/mfortin/estatedesk/internal/visit"
)

func TestCreateVisitRequiresAuth(t *testing.T) {
	srv, _ := testServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/visits", nil, map[string]interface{}{
		"property_id":  1,
		"scheduled_at": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCreateVisit(t *testing.T) {
	srv, d := testServer(t)
	_, cookie := loginAs(t, srv, "buyer@example.com", auth.RoleUser)
	propID := insertTestProperty(t, d, "REF-100")

	w := doJSON(t, srv, http.MethodPost, "/api/visits", cookie, map[string]interface{}{
		"property_id":  propID,
		"scheduled_at": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"notes":        "prefers mornings",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	resp := decodeBody(t, w)
	v, ok := resp["visit"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no visit object: %v", resp)
	}
	if v["status"] != string(visit.StatusPending) {
		t.Errorf("status = %v, want pending", v["status"])
	}
}

func TestCreateVisitValidation(t *testing.T) {
	srv, d := testServer(t)
	_, cookie := loginAs(t, srv, "buyer@example.com", auth.RoleUser)
	propID := insertTestProperty(t, d, "REF-101")

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing property", map[string]interface{}{
			"scheduled_at": time.Now().Add(time.Hour).Format(time.RFC3339),
		}},
		{"missing time", map[string]interface{}{
			"property_id": propID,
		}},
		{"bad time format", map[string]interface{}{
			"property_id":  propID,
			"scheduled_at": "next tuesday",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/api/visits", cookie, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestListVisitsAdminOnly(t *testing.T) {
	srv, _ := testServer(t)
	_, userCookie := loginAs(t, srv, "buyer@example.com", auth.RoleUser)
	_, adminCookie := loginAs(t, srv, "agent@example.com", auth.RoleAdmin)

	w := doJSON(t, srv, http.MethodGet, "/api/visits", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/visits", userCookie, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want 403", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/visits", adminCookie, nil)
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
}

func TestSetVisitStatus(t *testing.T) {
	srv, d := testServer(t)
	user, userCookie := loginAs(t, srv, "buyer@example.com", auth.RoleUser)
	_, adminCookie := loginAs(t, srv, "agent@example.com", auth.RoleAdmin)
	propID := insertTestProperty(t, d, "REF-102")

	v, err := srv.visits.Create(propID, user.ID, time.Now().Add(24*time.Hour), "")
	if err != nil {
		t.Fatalf("create visit: %v", err)
	}
	path := "/api/visits/" + formatID(v.ID) + "/status"

	// Non-admin must not be able to move the workflow.
	w := doJSON(t, srv, http.MethodPost, path, userCookie,
		map[string]string{"status": "confirmed"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("user status = %d, want 403", w.Code)
	}
	got, err := srv.visits.GetByID(v.ID)
	if err != nil {
		t.Fatalf("get visit: %v", err)
	}
	if got.Status != visit.StatusPending {
		t.Errorf("status after rejected update = %q, want pending", got.Status)
	}

	w = doJSON(t, srv, http.MethodPost, path, adminCookie,
		map[string]string{"status": "confirmed"})
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200: %s", w.Code, w.Body.String())
	}
	got, err = srv.visits.GetByID(v.ID)
	if err != nil {
		t.Fatalf("get visit: %v", err)
	}
	if got.Status != visit.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", got.Status)
	}
}

func TestSetVisitStatusRejectsInvalid(t *testing.T) {
	srv, d := testServer(t)
	user, _ := loginAs(t, srv, "buyer@example.com", auth.RoleUser)
	_, adminCookie := loginAs(t, srv, "agent@example.com", auth.RoleAdmin)
	propID := insertTestProperty(t, d, "REF-103")

	v, err := srv.visits.Create(propID, user.ID, time.Now().Add(24*time.Hour), "")
	if err != nil {
		t.Fatalf("create visit: %v", err)
	}
	path := "/api/visits/" + formatID(v.ID) + "/status"

	for _, status := range []string{"pending", "bogus", ""} {
		w := doJSON(t, srv, http.MethodPost, path, adminCookie,
			map[string]string{"status": status})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status %q: code = %d, want 400", status, w.Code)
		}
	}
}

func TestSetVisitStatusNotFound(t *testing.T) {
	srv, _ := testServer(t)
	_, adminCookie := loginAs(t, srv, "agent@example.com", auth.RoleAdmin)

	w := doJSON(t, srv, http.MethodPost, "/api/visits/9999/status", adminCookie,
		map[string]string{"status": "confirmed"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteVisit(t *testing.T) {
	srv, d := testServer(t)
	user, _ := loginAs(t, srv, "buyer@example.com", auth.RoleUser)
	_, adminCookie := loginAs(t, srv, "agent@example.com", auth.RoleAdmin)
	propID := insertTestProperty(t, d, "REF-104")

	v, err := srv.visits.Create(propID, user.ID, time.Now().Add(24*time.Hour), "")
	if err != nil {
		t.Fatalf("create visit: %v", err)
	}

	w := doJSON(t, srv, http.MethodDelete, "/api/visits/"+formatID(v.ID), adminCookie, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = doJSON(t, srv, http.MethodDelete, "/api/visits/"+formatID(v.ID), adminCookie, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
