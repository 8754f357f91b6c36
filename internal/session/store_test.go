package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amit-agicent/crm-gemini/internal/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	want := Session{
		Session: api.Session{
			Username:      "ana",
			MasterSheetID: "m1",
			DataSheetID:   "d1",
			DARSheetID:    "r1",
		},
		GasURL: "https://script.google.com/macros/s/abc/exec",
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatalf("expected session after Save")
	}
	if *got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", *got, want)
	}
}

func TestLoadAbsentSessionIsNilNil(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load of absent session returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil session, got %+v", got)
	}
}

func TestLoadMalformedSessionReportsError(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	path := filepath.Join(store.RootDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"username": nope`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := store.Load()
	if err == nil {
		t.Fatalf("expected error for malformed session file")
	}
	if got != nil {
		t.Fatalf("expected nil session with error, got %+v", got)
	}
	if !strings.Contains(err.Error(), "session file") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestLoadRejectsSessionWithoutUsername(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	path := filepath.Join(store.RootDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"gasUrl":"https://script.google.com/macros/x"}`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Fatalf("expected error for session without username")
	}
}

func TestClearRemovesSessionAndIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.Save(Session{Session: api.Session{Username: "ana"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear should be a no-op, got: %v", err)
	}

	got, err := store.Load()
	if err != nil || got != nil {
		t.Fatalf("expected absent session after Clear, got %+v err=%v", got, err)
	}
}

func TestThemeDefaultsToLightAndRoundTrips(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if got := store.LoadTheme(); got != ThemeLight {
		t.Fatalf("expected default theme light, got %q", got)
	}

	if err := store.SaveTheme(ThemeDark); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	if got := store.LoadTheme(); got != ThemeDark {
		t.Fatalf("expected dark after save, got %q", got)
	}

	// Toggling twice restores the original stored preference.
	if err := store.SaveTheme(ThemeLight); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	if got := store.LoadTheme(); got != ThemeLight {
		t.Fatalf("expected light after second toggle, got %q", got)
	}
}

func TestSaveThemeNormalizesUnknownValues(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.SaveTheme("solarized"); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	if got := store.LoadTheme(); got != ThemeLight {
		t.Fatalf("expected unknown theme to normalize to light, got %q", got)
	}
}
