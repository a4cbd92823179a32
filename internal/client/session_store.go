package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"skill-matrix/internal/domain/catalog"
)

// Credentials is what a signed-in CLI remembers between runs.
type Credentials struct {
	Server       string       `json:"server"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         catalog.User `json:"user"`
	SavedAt      time.Time    `json:"saved_at"`
}

// FileStore keeps Credentials in a JSON file readable only by its owner.
type FileStore struct {
	Path string
}

func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "skillctl", "session.json")
}

// Load returns ok=false when nobody is signed in. A file that cannot be
// parsed is removed and treated the same way.
func (s FileStore) Load() (Credentials, bool, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, false, nil
	}
	if err != nil {
		return Credentials{}, false, fmt.Errorf("read session: %w", err)
	}

	var cred Credentials
	if err := json.Unmarshal(raw, &cred); err != nil || cred.Token == "" {
		_ = os.Remove(s.Path)
		return Credentials{}, false, nil
	}
	return cred, true, nil
}

func (s FileStore) Save(cred Credentials) error {
	if cred.SavedAt.IsZero() {
		cred.SavedAt = time.Now().UTC()
	}
	raw, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, s.Path)
}

// Clear signs out. Clearing an empty store is not an error.
func (s FileStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
