// Package state persists client-side portal state between CLI runs:
// loaded on start, saved on change, independent of any particular
// storage medium via the Store interface.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// State is everything the client keeps between runs: connection
// settings, the session, the current department selection, and the
// cached profile image reference.
type State struct {
	ServerURL    string `yaml:"server_url,omitempty"`
	SessionToken string `yaml:"session_token,omitempty"`
	Email        string `yaml:"email,omitempty"`
	Department   string `yaml:"department,omitempty"`
	ProfileImage string `yaml:"profile_image,omitempty"`
}

// Store loads and saves client state.
type Store interface {
	Load() (State, error)
	Save(State) error
}

// FileStore persists state as YAML in the user's config directory.
type FileStore struct {
	path string
}

// NewFileStore creates a store at the given path, or the default
// (~/.config/portal/state.yaml) when path is empty.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		path = filepath.Join(home, ".config", "portal", "state.yaml")
	}
	return &FileStore{path: path}, nil
}

// Load reads the state from disk. A missing file yields a zero state.
func (s *FileStore) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("reading state: %w", err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parsing state: %w", err)
	}

	return st, nil
}

// Save writes the state to disk, creating the directory if needed.
func (s *FileStore) Save(st State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}

	return nil
}
