package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/catalogctl/internal/config"
)

func TestDefaultPath(t *testing.T) {
	p := config.DefaultPath()
	if p == "" {
		t.Fatal("DefaultPath returned empty string")
	}
	if !strings.HasSuffix(p, filepath.Join("catalogctl", "config.yml")) {
		t.Errorf("DefaultPath = %q, should end with catalogctl/config.yml", p)
	}
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
}

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFile_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := `api:
  base_url: http://127.0.0.1:9000/api/v1/
  timeout: 5s
  rate_limit: 4
defaults:
  page_size: 25
ui:
  redirect_delay: 500ms
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/api/v1", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 4.0, cfg.API.RateLimit)
	assert.Equal(t, 25, cfg.Defaults.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.UI.RedirectDelay)
	assert.Equal(t, 5*time.Second, cfg.UI.AlertDuration, "unset keys keep defaults")
	assert.Equal(t, time.Second, cfg.API.RetryDelay)
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  page_size: 25\n"), 0644))
	t.Setenv("CATALOGCTL_DEFAULTS_PAGE_SIZE", "50")
	t.Setenv("CATALOGCTL_LOG_LEVEL", "debug")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Defaults.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"page size":  "defaults:\n  page_size: 500\n",
		"base url":   "api:\n  base_url: localhost:7115\n",
		"log format": "log:\n  format: xml\n",
		"malformed":  "api: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := config.LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveFile_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	want := config.Default()
	want.API.BaseURL = "http://127.0.0.1:7115/api/v1"
	want.API.RateLimit = 2.5
	want.Log.Level = "warn"

	require.NoError(t, config.SaveFile(path, want))
	got, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "x.log"), config.ExpandHome("~/logs/x.log"))
	assert.Equal(t, "/var/log/x.log", config.ExpandHome("/var/log/x.log"))
}
