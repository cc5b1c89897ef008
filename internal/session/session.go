// Package session persists the admin session token between runs, the way a
// browser keeps it in local storage. The token is opaque to this package;
// only the backend can judge its validity.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store holds the current session token and its on-disk location.
type Store struct {
	path  string
	token string
}

// DefaultPath returns the per-user token file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config dir: %w", err)
	}
	return filepath.Join(dir, "storefront", "token"), nil
}

// NewStore creates a session store backed by the given file path and loads
// any persisted token. A missing file means an anonymous session.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session token: %w", err)
	}

	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// Token returns the current session token, or "" when anonymous.
func (s *Store) Token() string {
	return s.token
}

// Authenticated reports whether a token is present. Presence says nothing
// about validity; an expired token still surfaces as Unauthorized from the
// backend.
func (s *Store) Authenticated() bool {
	return s.token != ""
}

// Save persists a new token, replacing any existing one.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("writing session token: %w", err)
	}
	s.token = token
	return nil
}

// Clear removes the persisted token, returning the session to anonymous.
func (s *Store) Clear() error {
	s.token = ""
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session token: %w", err)
	}
	return nil
}
