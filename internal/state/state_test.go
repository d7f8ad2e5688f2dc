package state

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	st, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st != (State{}) {
		t.Errorf("expected zero state, got %+v", st)
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "state.yaml"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	want := State{
		ServerURL:    "http://localhost:9999",
		SessionToken: "token-123",
		Email:        "elice@example.com",
		Department:   "Elice School",
		ProfileImage: "/uploads/me.png",
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("roundtrip = %+v, want %+v", got, want)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Save(State{Department: "Elice Group"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(State{Department: "Elice Track"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Department != "Elice Track" {
		t.Errorf("department = %q, want last write", got.Department)
	}
}
