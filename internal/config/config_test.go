// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	for _, k := range []string{
		"COMPANION_API_URL", LegacyAPIURLEnv, "COMPANION_API_TIMEOUT", "COMPANION_API_RPS",
		"COMPANION_NICKNAME", "COMPANION_SAFE_MODE", "COMPANION_THEME",
		"COMPANION_LOG_LEVEL", "COMPANION_LOG_FILE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault(t *testing.T) {
	dir := isolate(t)
	cfg := Default()

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 0, cfg.API.TimeoutSecs)
	assert.Equal(t, "사용자", cfg.Defaults.Nickname)
	assert.True(t, cfg.Defaults.SafeMode)
	assert.Equal(t, 18, cfg.Defaults.MinAge)
	assert.Equal(t, 35, cfg.Defaults.MaxAge)
	assert.Equal(t, filepath.Join(dir, "companion.log"), cfg.Logging.File)
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	dir := isolate(t)
	cfg, err := LoadFromPath(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoadFromPath_TOML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "http://backend:9000/"
timeout_secs = 30

[defaults]
nickname = "민수"
safe_mode = false
`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
	assert.Equal(t, "민수", cfg.Defaults.Nickname)
	assert.False(t, cfg.Defaults.SafeMode)
	// untouched keys keep their defaults
	assert.Equal(t, 35, cfg.Defaults.MaxAge)
	assert.Equal(t, "auto", cfg.UI.Theme)
}

func TestLoadFromPath_InvalidFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\nbase_url="), 0600))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("COMPANION_NICKNAME=지수\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("COMPANION_NICKNAME") })

	cfg, err := LoadFromPath(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "지수", cfg.Defaults.Nickname)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "https://companion.example.com"
	cfg.Defaults.SafeMode = false
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://companion.example.com", loaded.API.BaseURL)
	assert.False(t, loaded.Defaults.SafeMode)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	cfg := Default()
	err := cfg.ApplyEnvOverrides(map[string]string{
		"COMPANION_API_TIMEOUT": "15",
		"COMPANION_SAFE_MODE":   "false",
		"COMPANION_API_RPS":     "2.5",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.API.TimeoutSecs)
	assert.False(t, cfg.Defaults.SafeMode)
	assert.Equal(t, 2.5, cfg.API.MaxRequestsPerSecond)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestApplyEnvOverrides_APIURLPrecedence(t *testing.T) {
	isolate(t)

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvOverrides(map[string]string{
		LegacyAPIURLEnv: "http://legacy:8000",
	}))
	assert.Equal(t, "http://legacy:8000", cfg.API.BaseURL)

	cfg = Default()
	require.NoError(t, cfg.ApplyEnvOverrides(map[string]string{
		LegacyAPIURLEnv:     "http://legacy:8000",
		"COMPANION_API_URL": "http://primary:8000",
	}))
	assert.Equal(t, "http://primary:8000", cfg.API.BaseURL)
}

func TestApplyEnvOverrides_BadValue(t *testing.T) {
	isolate(t)
	cfg := Default()
	err := cfg.ApplyEnvOverrides(map[string]string{"COMPANION_API_TIMEOUT": "soon"})
	assert.Error(t, err)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.API.BaseURL = "ftp://x" }, "api.base_url"},
		{"negative timeout", func(c *Config) { c.API.TimeoutSecs = -1 }, "api.timeout_secs"},
		{"negative rps", func(c *Config) { c.API.MaxRequestsPerSecond = -3 }, "api.max_requests_per_second"},
		{"inverted ages", func(c *Config) { c.Defaults.MinAge = 40 }, "defaults.min_age"},
		{"age too large", func(c *Config) { c.Defaults.MaxAge = 500 }, "defaults.max_age"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

// =============================================================================
// GET / SET
// =============================================================================

func TestGetSet(t *testing.T) {
	isolate(t)
	cfg := Default()

	v, err := cfg.Get("api.base_url")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, v)

	require.NoError(t, cfg.Set("api.timeout_secs", "12"))
	assert.Equal(t, 12, cfg.API.TimeoutSecs)

	require.NoError(t, cfg.Set("defaults.safe_mode", "off"))
	assert.False(t, cfg.Defaults.SafeMode)

	require.NoError(t, cfg.Set("api.max_requests_per_second", 4))
	assert.Equal(t, 4.0, cfg.API.MaxRequestsPerSecond)

	assert.Error(t, cfg.Set("defaults.safe_mode", "maybe"))
	assert.Error(t, cfg.Set("api.nope", "1"))
	assert.Error(t, cfg.Set("api", "1"))
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestAllKeys(t *testing.T) {
	isolate(t)
	keys := AllKeys()
	assert.Contains(t, keys, "api.base_url")
	assert.Contains(t, keys, "defaults.nickname")
	assert.Contains(t, keys, "logging.file")

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

// =============================================================================
// WATCH
// =============================================================================

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads, err := WatchWithDebounce(ctx, path, 20*time.Millisecond)
	require.NoError(t, err)

	cfg := Default()
	cfg.Defaults.Nickname = "하늘"
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case r := <-reloads:
		require.NoError(t, r.Err)
		assert.Equal(t, "하늘", r.Config.Defaults.Nickname)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload received")
	}

	cancel()
	for range reloads {
	}
}
