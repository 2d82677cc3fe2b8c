package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"erp/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	f, err := parseArgs([]string{"-db", "/tmp/x.db", "-api", "http://h:1", "-token", "t", "-state", "memory", "-log-level", "debug", "-persist-state"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", f.dbPath)
	assert.Equal(t, "http://h:1", f.apiURL)
	assert.Equal(t, "t", f.apiToken)
	assert.Equal(t, "memory", f.state)
	assert.Equal(t, "debug", f.logLevel)
	assert.True(t, f.persist)

	_, err = parseArgs([]string{"-nope"}, io.Discard)
	assert.Error(t, err)
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	cfg := config.Default(t.TempDir())
	applyFlags(cfg, flagValues{dbPath: "/data/erp.db", apiURL: "http://api:8080", apiToken: "tok", state: config.BackendPudge, logLevel: "warn", persist: true})

	assert.Equal(t, "/data/erp.db", cfg.Database.Path)
	assert.Equal(t, "http://api:8080", cfg.API.BaseURL)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, config.BackendPudge, cfg.State.Backend)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.State.PersistAcrossSessions)

	untouched := config.Default("/x")
	applyFlags(untouched, flagValues{})
	assert.Equal(t, config.Default("/x"), untouched)
}

func TestApplyEnvDoesNotOverrideConfig(t *testing.T) {
	t.Setenv("ERP_API_URL", "http://env:1")
	t.Setenv("ERP_API_TOKEN", "env-token")

	cfg := config.Default(t.TempDir())
	applyEnv(cfg)
	assert.Equal(t, "http://env:1", cfg.API.BaseURL)
	assert.Equal(t, "env-token", cfg.API.Token)

	cfg.API.BaseURL = "http://file:1"
	cfg.API.Token = "file-token"
	applyEnv(cfg)
	assert.Equal(t, "http://file:1", cfg.API.BaseURL)
	assert.Equal(t, "file-token", cfg.API.Token)
}

func TestApplyOnboardingRemote(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, saveSecureAPIToken(dir, "  secret-token \n"))

	info, err := os.Stat(secureTokenPath(dir))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cfg := config.Default(dir)
	require.NoError(t, applyOnboarding(cfg, dir, OnboardingSettings{Completed: true, Source: sourceRemote, APIURL: "http://api:8080"}))
	assert.Equal(t, "http://api:8080", cfg.API.BaseURL)
	assert.Equal(t, "secret-token", cfg.API.Token)
}

func TestApplyOnboardingLocal(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)
	require.NoError(t, applyOnboarding(cfg, dir, OnboardingSettings{Completed: true, Source: sourceLocal}))
	assert.False(t, cfg.Remote())
	assert.Empty(t, cfg.API.Token)
}

func TestOnboardingSettingsRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	s, err := loadOnboardingSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, OnboardingSettings{}, s)

	want := OnboardingSettings{Completed: true, Source: sourceRemote, APIURL: "http://api:8080"}
	require.NoError(t, saveOnboardingSettings(dir, want))
	got, err := loadOnboardingSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.False(t, shouldRunOnboarding(got))
}

func TestSecureTokenMissing(t *testing.T) {
	token, err := loadSecureAPIToken(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.NoError(t, saveSecureAPIToken(t.TempDir(), "   "))
}

func typeKeys(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestOnboardingLocal(t *testing.T) {
	m := typeKeys(newOnboardingModel(), "enter").(onboardingModel)
	assert.Equal(t, stepDone, m.step)
	assert.Equal(t, sourceLocal, m.settings.Source)
	assert.True(t, m.settings.Completed)
}

func TestOnboardingRemote(t *testing.T) {
	m := typeKeys(newOnboardingModel(), "down", "enter").(onboardingModel)
	require.Equal(t, stepURL, m.step)

	m = typeKeys(m, "not a url", "enter").(onboardingModel)
	assert.Equal(t, stepURL, m.step, "invalid URL keeps the step")
	assert.NotEmpty(t, m.status)

	m.urlInput.SetValue("http://127.0.0.1:8080/")
	m = typeKeys(m, "enter").(onboardingModel)
	require.Equal(t, stepToken, m.step)
	assert.Equal(t, "http://127.0.0.1:8080", m.settings.APIURL)

	m = typeKeys(m, "abc", "enter").(onboardingModel)
	assert.Equal(t, stepDone, m.step)
	assert.Equal(t, sourceRemote, m.settings.Source)
	assert.Equal(t, "abc", m.token)
	assert.NotContains(t, m.View(), "abc")
}

func TestOnboardingRemoteEscapeFallsBackToLocal(t *testing.T) {
	m := typeKeys(newOnboardingModel(), "r", "esc").(onboardingModel)
	assert.Equal(t, stepDone, m.step)
	assert.Equal(t, sourceLocal, m.settings.Source)
}
