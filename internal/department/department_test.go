package department

import (
	"path/filepath"
	"testing"

	"github.com/officeportal/portal/internal/db"
)

func TestDepartmentCatalog(t *testing.T) {
	if len(Departments) != 5 {
		t.Fatalf("catalog has %d departments, want 5", len(Departments))
	}
	for _, name := range Departments {
		if !Valid(name) {
			t.Errorf("catalog entry %q reported invalid", name)
		}
	}
	if Valid("Elice Nowhere") {
		t.Error("unknown department reported valid")
	}
	if Valid("") {
		t.Error("empty name reported valid")
	}
}

func TestSelectionLastWriteWins(t *testing.T) {
	sel := NewSelection()
	if sel.Get() != "" {
		t.Errorf("new selection = %q, want empty", sel.Get())
	}

	sel.Set("Elice Group")
	sel.Set("Elice Track")
	if got := sel.Get(); got != "Elice Track" {
		t.Errorf("selection = %q, want last write", got)
	}
}

func TestSelectionOnChange(t *testing.T) {
	sel := NewSelection()

	var saved []string
	sel.OnChange(func(name string) { saved = append(saved, name) })

	sel.Set("Elice School")
	sel.Set("Elice Academy")

	if len(saved) != 2 || saved[0] != "Elice School" || saved[1] != "Elice Academy" {
		t.Errorf("hook saw %v, want every Set in order", saved)
	}
}

func testRepo(t *testing.T) *Repository {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("closing database: %v", err)
		}
	})
	return NewRepository(database)
}

func TestRepositorySetAndGet(t *testing.T) {
	repo := testRepo(t)

	if err := repo.Set("kim@example.com", "Elice School"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := repo.Get("kim@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "Elice School" {
		t.Errorf("selection = %q", got)
	}
}

func TestRepositorySetReplaces(t *testing.T) {
	repo := testRepo(t)

	if err := repo.Set("kim@example.com", "Elice Group"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set("kim@example.com", "Elice Enterprise"); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.Get("kim@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "Elice Enterprise" {
		t.Errorf("selection = %q, want the replacement", got)
	}
}

func TestRepositorySetRejectsUnknown(t *testing.T) {
	repo := testRepo(t)
	if err := repo.Set("kim@example.com", "Elice Nowhere"); err == nil {
		t.Error("expected error for unknown department")
	}
}

func TestRepositoryGetUnset(t *testing.T) {
	repo := testRepo(t)
	got, err := repo.Get("nobody@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "" {
		t.Errorf("selection = %q, want empty for unset user", got)
	}
}
