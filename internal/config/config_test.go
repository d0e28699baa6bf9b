package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
app:
  env: prod
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, defaultAppLogLevel, cfg.App.LogLevel)
	assert.Equal(t, defaultAppHTTPAddr, cfg.App.HTTPAddr)
	assert.Equal(t, "gorm", cfg.Storage.NormalizedDriver())
	assert.Equal(t, defaultStorageKey, cfg.Storage.Key)
	assert.Equal(t, defaultStorageMax, cfg.Storage.MaxItems)
	assert.Equal(t, "scout", cfg.Feed.NormalizedSource())
	assert.Equal(t, defaultScoutSlowEMA, cfg.Scout.SlowEMA)
	assert.Equal(t, defaultTickInterval, cfg.Tick.Interval)
	assert.Equal(t, []string{defaultWatchlistSymbol}, cfg.Watchlist.Symbols)
}

func TestLoadWeaklyTypedValues(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
storage:
  driver: SQLite
  max_items: "120"
scout:
  target_r: "2.5"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.NormalizedDriver())
	assert.Equal(t, 120, cfg.Storage.MaxItems)
	assert.Equal(t, 2.5, cfg.Scout.TargetR)
}

func TestLoadIncludes(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	main := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(base, []byte("app:\n  log_level: debug\n"), 0o644))
	require.NoError(t, os.WriteFile(main, []byte("include:\n  - base.yaml\napp:\n  env: prod\n"), 0o644))

	cfg, err := Load(main)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "bad driver", body: "storage:\n  driver: redis\n"},
		{name: "http feed without endpoint", body: "feed:\n  source: http\n"},
		{name: "fast ema above slow", body: "scout:\n  fast_ema: 60\n  slow_ema: 20\n"},
		{name: "bad tick interval", body: "tick:\n  interval: soon\n"},
		{name: "negative offset", body: "tick:\n  offset_seconds: -5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
