package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/amit-agicent/crm-gemini/internal/app"
	"github.com/amit-agicent/crm-gemini/internal/session"
)

var (
	flagEndpoint string
	flagDataDir  string
	flagTheme    string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crm-tui",
		Short: "Terminal client for the Gemini CRM sheet backend",
		Long: "crm-tui is a terminal client for a Google Apps Script CRM backend.\n" +
			"It signs in against the script's web app URL, records outreach entries\n" +
			"and daily activity reports, and browses saved history.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	cmd.Flags().StringVar(&flagEndpoint, "endpoint", "", "Apps Script web app URL (overrides the stored session URL)")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "directory for session and preference files")
	cmd.Flags().StringVar(&flagTheme, "theme", "", "startup theme, light or dark (overrides the stored preference)")
	return cmd
}

// resolveDataDir picks the state directory: the flag when given, otherwise
// a crm-gemini folder under the user config dir, with a dotdir fallback in
// $HOME when the config dir is unavailable.
func resolveDataDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	configDir, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(configDir, "crm-gemini"), nil
	}
	home, homeErr := os.UserHomeDir()
	if homeErr != nil {
		return "", fmt.Errorf("resolving data dir: %w", homeErr)
	}
	return filepath.Join(home, ".crm-gemini"), nil
}

func run() error {
	dataDir, err := resolveDataDir(flagDataDir)
	if err != nil {
		return err
	}
	store, err := session.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}

	opts := app.Options{Endpoint: flagEndpoint}
	opts.Theme = store.LoadTheme()
	switch flagTheme {
	case session.ThemeLight, session.ThemeDark:
		opts.Theme = flagTheme
	}

	// A corrupt session file falls back to a fresh sign-in rather than
	// blocking startup.
	sess, err := store.Load()
	if err != nil {
		opts.SessionNote = "Stored session could not be read; please sign in again."
	} else {
		opts.Session = sess
	}

	program := tea.NewProgram(app.NewModel(store, opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
