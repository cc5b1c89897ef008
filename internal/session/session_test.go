package session

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestAnonymousByDefault(t *testing.T) {
	s := testStore(t)
	if s.Authenticated() {
		t.Error("expected anonymous session with no token file")
	}
	if s.Token() != "" {
		t.Errorf("expected empty token, got %q", s.Token())
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	s, _ := NewStore(path)
	if err := s.Save("abc123"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Token() != "abc123" {
		t.Errorf("expected token in memory, got %q", s.Token())
	}

	// A fresh store must see the persisted token (survives "reload").
	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore after save: %v", err)
	}
	if reloaded.Token() != "abc123" {
		t.Errorf("expected persisted token, got %q", reloaded.Token())
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	s, _ := NewStore(path)
	s.Save("abc123")
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Authenticated() {
		t.Error("expected anonymous session after clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected token file to be removed")
	}

	// Clearing an already-clear session is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("Clear on empty session: %v", err)
	}
}
