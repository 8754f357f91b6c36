package main

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolveDataDirFlagWins(t *testing.T) {
	t.Parallel()

	got, err := resolveDataDir("/tmp/custom-state")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/tmp/custom-state" {
		t.Fatalf("flag value should be used verbatim, got %q", got)
	}
}

func TestResolveDataDirUsesConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG config layout is linux-specific")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	got, err := resolveDataDir("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "crm-gemini" {
		t.Fatalf("expected a crm-gemini dir under the config dir, got %q", got)
	}
}
