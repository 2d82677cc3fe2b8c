package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrDefaultMissingFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, "config.yaml"), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "erp.db"), cfg.Database.Path)
	assert.Equal(t, BackendSQLite, cfg.State.Backend)
	assert.Equal(t, 10, cfg.Table.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.Table.Debounce)
	assert.False(t, cfg.Remote())
}

func TestParseOverridesDefaults(t *testing.T) {
	t.Setenv("ERP_TEST_TOKEN", "s3cret")

	yml := `
state:
  backend: pudge
  path: /tmp/erp/state
api:
  base_url: http://localhost:8080
  token: ${ERP_TEST_TOKEN}
  timeout: 5s
table:
  page_size: 20
  debounce: 150ms
metabase:
  site_url: https://bi.example.com
  secret_key: ${ERP_TEST_TOKEN}
  dashboard_id: 7
  ttl: 1h
`
	cfg, err := Parse([]byte(yml), "/home/x/.erp")
	require.NoError(t, err)

	assert.Equal(t, BackendPudge, cfg.State.Backend)
	assert.Equal(t, "s3cret", cfg.API.Token)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 20, cfg.Table.PageSize)
	assert.Equal(t, 150*time.Millisecond, cfg.Table.Debounce)
	assert.Equal(t, 10*time.Second, cfg.Table.FetchTimeout, "unset durations keep defaults")
	assert.Equal(t, time.Hour, cfg.Metabase.TTL)
	assert.Equal(t, 7, cfg.Metabase.DashboardID)
	assert.True(t, cfg.Remote())
}

func TestParseUnsetEnvExpandsEmpty(t *testing.T) {
	os.Unsetenv("ERP_TEST_MISSING")
	cfg, err := Parse([]byte("api:\n  token: \"${ERP_TEST_MISSING}\"\n"), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.API.Token)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		yml  string
	}{
		{"unknown backend", "state:\n  backend: redis\n"},
		{"bad duration", "table:\n  debounce: soon\n"},
		{"negative duration", "table:\n  debounce: -1s\n"},
		{"relative api url", "api:\n  base_url: localhost\n"},
		{"zero page size", "table:\n  page_size: 0\n"},
		{"secret without site", "metabase:\n  secret_key: abc\n"},
		{"bad yaml", "state: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yml), t.TempDir())
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0600))

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(dir, "erp.log"), cfg.Logging.File)
}
