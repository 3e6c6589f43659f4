package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultDataDir is where LocalStore keeps its file unless told otherwise
const DefaultDataDir = "~/.local/share/webutils"

const localFileName = "local.json"

// LocalStore persists values in a JSON file. Values never expire.
type LocalStore struct {
	dataDir string
	mu      sync.Mutex
}

// NewLocalStore creates a LocalStore in dataDir, creating the directory if needed
func NewLocalStore(dataDir string) (*LocalStore, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &LocalStore{
		dataDir: dataDir,
	}, nil
}

// Path returns the file backing the store
func (s *LocalStore) Path() string {
	return filepath.Join(s.dataDir, localFileName)
}

// Get returns the value stored under name
func (s *LocalStore) Get(ctx context.Context, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[name]
	return value, ok, nil
}

// Set stores value under name and rewrites the file
func (s *LocalStore) Set(ctx context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[name] = value
	return s.save(values)
}

// load reads the file; a missing file is an empty store
func (s *LocalStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("reading local store: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing local store: %w", err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

// save writes values to a temporary file and renames it into place
func (s *LocalStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding local store: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing local store: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("replacing local store: %w", err)
	}
	return nil
}
