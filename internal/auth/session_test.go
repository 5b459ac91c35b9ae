package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionCreateAndValidate(t *testing.T) {
	store := NewSessionStore(testDB(t))

	w := httptest.NewRecorder()
	if err := store.Create(w, "Agent@Example.com"); err != nil {
		t.Fatalf("create: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])

	email, err := store.Validate(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if email != "agent@example.com" {
		t.Errorf("email = %q, want lowercased agent@example.com", email)
	}
}

func TestSessionValidateMissingCookie(t *testing.T) {
	store := NewSessionStore(testDB(t))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := store.Validate(r); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
}

func TestSessionExpired(t *testing.T) {
	d := testDB(t)
	store := NewSessionStore(d)

	if _, err := d.Exec(
		"INSERT INTO sessions (id, email, expires_at) VALUES (?, ?, ?)",
		"stale", "agent@example.com", time.Now().UTC().Add(-time.Hour),
	); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "ed_session", Value: "stale"})

	if _, err := store.Validate(r); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
}

func TestSessionDestroy(t *testing.T) {
	store := NewSessionStore(testDB(t))

	w := httptest.NewRecorder()
	if err := store.Create(w, "agent@example.com"); err != nil {
		t.Fatalf("create: %v", err)
	}
	cookie := w.Result().Cookies()[0]

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)

	w2 := httptest.NewRecorder()
	if err := store.Destroy(w2, r); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	cleared := w2.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Error("expected a deletion cookie")
	}

	if _, err := store.Validate(r); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("err after destroy = %v, want ErrInvalidSession", err)
	}
}

func TestSessionDestroyWithoutCookie(t *testing.T) {
	store := NewSessionStore(testDB(t))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := store.Destroy(httptest.NewRecorder(), r); err != nil {
		t.Fatalf("destroy without cookie: %v", err)
	}
}

func TestSessionCleanup(t *testing.T) {
	d := testDB(t)
	store := NewSessionStore(d)

	if _, err := d.Exec(
		"INSERT INTO sessions (id, email, expires_at) VALUES (?, ?, ?)",
		"stale", "agent@example.com", time.Now().UTC().Add(-time.Hour),
	); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	if err := store.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 0 {
		t.Errorf("got %d sessions after cleanup, want 0", count)
	}
}
