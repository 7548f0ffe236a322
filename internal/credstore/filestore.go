package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps secrets in a 0600 JSON file under the user config dir.
// It trades keychain encryption for availability on headless machines.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file store rooted at the default config dir.
func NewFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, "native-hub")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, "credentials.json")}, nil
}

// NewFileStoreAt creates a file store at an explicit path (used by tests).
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	secrets := map[string]string{}
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return secrets, nil
}

func key(service, account string) string {
	return service + "/" + account
}

// Get retrieves a secret from the file.
func (s *FileStore) Get(service, account string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return "", err
	}
	secret, ok := secrets[key(service, account)]
	if !ok || secret == "" {
		return "", ErrNotFound
	}
	return secret, nil
}

// Set writes a secret to the file, creating it with 0600 if needed.
func (s *FileStore) Set(service, account, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load()
	if err != nil {
		return err
	}
	secrets[key(service, account)] = secret

	data, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
