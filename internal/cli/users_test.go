package cli

import (
	"testing"

	"github.com/mfortin/estatedesk/internal/auth"
	"github.com/mfortin/estatedesk/internal/db"
)

func TestUsersAddAndList(t *testing.T) {
	path := testDBPath(t)

	_, err := executeCommand("users", "add", "agent@example.com",
		"--name", "Ana Agent", "--role", "admin", "--db", path)
	if err != nil {
		t.Fatalf("users add: %v", err)
	}

	_, err = executeCommand("users", "list", "--db", path)
	if err != nil {
		t.Fatalf("users list: %v", err)
	}

	database, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			t.Errorf("close db: %v", cerr)
		}
	}()

	user, err := auth.NewUserStore(database).GetByEmail("agent@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Role != auth.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if user.Name != "Ana Agent" {
		t.Errorf("name = %q, want Ana Agent", user.Name)
	}
}

func TestUsersAddRejectsBadRole(t *testing.T) {
	_, err := executeCommand("users", "add", "x@example.com",
		"--role", "overlord", "--db", testDBPath(t))
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestUsersRole(t *testing.T) {
	path := testDBPath(t)

	_, err := executeCommand("users", "add", "agent@example.com", "--db", path)
	if err != nil {
		t.Fatalf("users add: %v", err)
	}

	_, err = executeCommand("users", "role", "1", "admin", "--db", path)
	if err != nil {
		t.Fatalf("users role: %v", err)
	}

	database, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			t.Errorf("close db: %v", cerr)
		}
	}()

	user, err := auth.NewUserStore(database).GetByID(1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Role != auth.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
}

func TestUsersRoleRejectsBadID(t *testing.T) {
	_, err := executeCommand("users", "role", "abc", "admin", "--db", testDBPath(t))
	if err == nil {
		t.Fatal("expected error for non-numeric ID")
	}
}
