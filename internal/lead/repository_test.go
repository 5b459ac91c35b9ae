package lead

import (
	"path/filepath"
	"testing"

	"github.com/mfortin/estatedesk/internal/db"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if cerr := d.Close(); cerr != nil {
			t.Errorf("close db: %v", cerr)
		}
	})
	return NewRepository(d)
}

func TestAddAndGet(t *testing.T) {
	repo := testRepo(t)

	budget := int64(450000)
	l, err := repo.Add(&Lead{
		Kind:    KindSearch,
		Name:    "Sofia Marek",
		Email:   "sofia@example.com",
		Message: "Looking for a 2-bed near the center",
		Budget:  &budget,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if l.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if l.Status != StatusNew {
		t.Errorf("status = %q, want new", l.Status)
	}
	if l.Budget == nil || *l.Budget != 450000 {
		t.Errorf("budget = %v, want 450000", l.Budget)
	}
}

func TestAddValidation(t *testing.T) {
	repo := testRepo(t)

	cases := []struct {
		name string
		lead Lead
	}{
		{"bad kind", Lead{Kind: "rent", Name: "x", Email: "x@example.com"}},
		{"no name", Lead{Kind: KindSell, Email: "x@example.com"}},
		{"no contact", Lead{Kind: KindSell, Name: "x"}},
	}

	for _, tc := range cases {
		if _, err := repo.Add(&tc.lead); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestListByStatus(t *testing.T) {
	repo := testRepo(t)

	a, err := repo.Add(&Lead{Kind: KindSell, Name: "A", Phone: "1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := repo.Add(&Lead{Kind: KindSearch, Name: "B", Phone: "2"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := repo.SetStatus(a.ID, StatusContacted); err != nil {
		t.Fatalf("set status: %v", err)
	}

	all, err := repo.List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d leads, want 2", len(all))
	}

	contacted, err := repo.List(StatusContacted)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(contacted) != 1 || contacted[0].ID != a.ID {
		t.Errorf("contacted filter returned %d rows", len(contacted))
	}
}

func TestSetStatusInvalid(t *testing.T) {
	repo := testRepo(t)

	l, err := repo.Add(&Lead{Kind: KindSell, Name: "A", Phone: "1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.SetStatus(l.ID, Status("won")); err == nil {
		t.Fatal("expected error for invalid status")
	}
	if err := repo.SetStatus(9999, StatusClosed); err == nil {
		t.Fatal("expected error for missing lead")
	}
}

func TestDeleteLead(t *testing.T) {
	repo := testRepo(t)

	l, err := repo.Add(&Lead{Kind: KindSell, Name: "A", Phone: "1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Delete(l.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(l.ID); err == nil {
		t.Fatal("expected error deleting twice")
	}
}
