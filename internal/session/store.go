package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amit-agicent/crm-gemini/internal/api"
)

const (
	sessionFileName = "session.json"
	themeFileName   = "theme.json"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Session is the client-held record of an authenticated user: the backend
// auth payload plus the endpoint it was issued by. It is persisted verbatim
// and destroyed only by an explicit logout.
type Session struct {
	api.Session
	GasURL string `json:"gasUrl"`
}

type themeRecord struct {
	Theme string `json:"theme"`
}

type Store struct {
	rootDir string
}

func NewStore(rootDir string) (*Store, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &Store{rootDir: rootDir}, nil
}

func (s *Store) RootDir() string {
	return s.rootDir
}

// Load returns the persisted session, or (nil, nil) when none exists. A file
// that exists but does not parse is reported as an error so callers can tell
// "never logged in" from "session file is damaged".
func (s *Store) Load() (*Session, error) {
	path := filepath.Join(s.rootDir, sessionFileName)
	blob, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(blob, &sess); err != nil {
		return nil, fmt.Errorf("decode session file %s: %w", path, err)
	}
	if strings.TrimSpace(sess.Username) == "" {
		return nil, fmt.Errorf("session file %s has no username", path)
	}
	return &sess, nil
}

func (s *Store) Save(sess Session) error {
	return writeJSON(filepath.Join(s.rootDir, sessionFileName), sess)
}

// Clear removes the session file entirely. Clearing an absent session is
// not an error.
func (s *Store) Clear() error {
	err := os.Remove(filepath.Join(s.rootDir, sessionFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// LoadTheme returns the stored theme preference, defaulting to light when
// the preference is absent or unreadable.
func (s *Store) LoadTheme() string {
	blob, err := os.ReadFile(filepath.Join(s.rootDir, themeFileName))
	if err != nil {
		return ThemeLight
	}
	var record themeRecord
	if err := json.Unmarshal(blob, &record); err != nil {
		return ThemeLight
	}
	if record.Theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (s *Store) SaveTheme(theme string) error {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return writeJSON(filepath.Join(s.rootDir, themeFileName), themeRecord{Theme: theme})
}

func writeJSON(path string, value any) error {
	blob, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json for %s: %w", path, err)
	}
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
