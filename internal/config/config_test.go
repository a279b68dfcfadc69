package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Banner.Delay.Duration)
	assert.Equal(t, 10*time.Second, cfg.Endpoint.Timeout.Duration)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotNil(t, cfg.Endpoint.Headers)
	assert.NotEmpty(t, cfg.Theme.Heading)
}

func TestLoadYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `endpoint:
  url: https://lms.example.com/ccx/course-v1:MITx+6.00x+2026/rename
  headers:
    X-CSRFToken: abc
display_name: Physics 101
banner:
  delay: 250ms
theme:
  heading: "#00ff00"
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Physics 101", cfg.DisplayName)
	assert.Equal(t, 250*time.Millisecond, cfg.Banner.Delay.Duration)
	assert.Equal(t, 10*time.Second, cfg.Endpoint.Timeout.Duration, "unset keys keep defaults")
	assert.Equal(t, "abc", cfg.Endpoint.Headers["X-CSRFToken"])
	assert.Equal(t, "#00ff00", cfg.Theme.Heading)
	assert.NotEmpty(t, cfg.Theme.Button)
	require.NoError(t, Validate(cfg))
}

func TestLoadTOMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	configTOML := `display_name = "Chemistry 110"
locale = "fr"

[endpoint]
url = "http://localhost:8000/rename"
timeout = "3s"

[endpoint.headers]
Cookie = "sessionid=xyz"
`
	require.NoError(t, os.WriteFile(path, []byte(configTOML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Chemistry 110", cfg.DisplayName)
	assert.Equal(t, "fr", cfg.Locale)
	assert.Equal(t, 3*time.Second, cfg.Endpoint.Timeout.Duration)
	assert.Equal(t, "sessionid=xyz", cfg.Endpoint.Headers["Cookie"])
	assert.Equal(t, time.Second, cfg.Banner.Delay.Duration)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("banner:\n  delay: soon\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	err = Validate(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint.url")

	base.Endpoint.URL = "http://localhost/rename"
	require.NoError(t, Validate(base))

	noDelay := base
	noDelay.Banner.Delay.Duration = 0
	require.Error(t, Validate(noDelay))

	badLevel := base
	badLevel.Log.Level = "chatty"
	require.Error(t, Validate(badLevel))
}

func TestParseLevel(t *testing.T) {
	for level, want := range map[string]int8{"debug": -1, "": 0, "INFO": 0, "warn": 1, "error": 2} {
		got, err := ParseLevel(level)
		require.NoError(t, err, level)
		assert.Equal(t, want, got, level)
	}
}

func TestMarshalFormats(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Endpoint.URL = "http://localhost/rename"

	y, err := Marshal(cfg, "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(y), "delay: 1s")

	tm, err := Marshal(cfg, "toml")
	require.NoError(t, err)
	assert.Contains(t, string(tm), "http://localhost/rename")
	assert.Contains(t, string(tm), "[endpoint]")

	j, err := Marshal(cfg, "json")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(j), `"delay": "1s"`))

	_, err = Marshal(cfg, "xml")
	require.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "explicit.yaml", ResolvePath("explicit.yaml"))

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())
	assert.Empty(t, ResolvePath(""))

	dir := filepath.Join(xdg, "ccxrename")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("locale = \"es\"\n"), 0o600))
	assert.Equal(t, path, ResolvePath(""))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "CCXRENAME_BANNER_DELAY", EnvName("banner-delay"))
	assert.Equal(t, "CCXRENAME_URL", EnvName("url"))
}
