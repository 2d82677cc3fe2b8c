package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TablePrefs stores per-table UI preferences. Paging, sorting, filters and
// search live in the table state store and do not outlive the session;
// column layout does.
type TablePrefs struct {
	HiddenColumns []string `json:"hidden_columns"`
	ActiveColumn  string   `json:"active_column"`
}

// UIPreferences stores persisted app preferences.
type UIPreferences struct {
	Tables  map[string]TablePrefs `json:"tables"`
	LastTab string                `json:"last_tab"`
}

func defaultUIPreferences() UIPreferences {
	return UIPreferences{Tables: map[string]TablePrefs{}}
}

func prefsPath(dir string) string {
	return filepath.Join(dir, "ui_prefs.json")
}

// loadUIPreferences never fails: a missing or unreadable file yields the
// defaults.
func loadUIPreferences(dir string) UIPreferences {
	if dir == "" {
		return defaultUIPreferences()
	}

	data, err := os.ReadFile(prefsPath(dir))
	if err != nil {
		return defaultUIPreferences()
	}

	var prefs UIPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return defaultUIPreferences()
	}
	if prefs.Tables == nil {
		prefs.Tables = map[string]TablePrefs{}
	}
	return prefs
}

func saveUIPreferences(dir string, prefs UIPreferences) error {
	if dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}

	if err := os.WriteFile(prefsPath(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}
