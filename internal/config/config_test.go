package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 100, cfg.API.DefaultLimit)
	assert.Equal(t, 1000, cfg.API.MaxLimit)
	assert.Equal(t, 5*time.Second, cfg.Tracker.Interval)
	assert.Equal(t, 60*time.Second, cfg.Tracker.IdleThreshold)
	assert.Equal(t, "auto", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Database.Path)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9100
database:
  path: /tmp/efficia-test.db
tracker:
  interval: 10s
  api_url: http://localhost:9100
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/tmp/efficia-test.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Tracker.Interval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("EFFICIA_SERVER_PORT", "8123")
	t.Setenv("EFFICIA_API_DEFAULT_LIMIT", "20")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, 20, cfg.API.DefaultLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port", map[string]string{"EFFICIA_SERVER_PORT": "70000"}},
		{"limits", map[string]string{"EFFICIA_API_MAX_LIMIT": "10"}},
		{"interval", map[string]string{"EFFICIA_TRACKER_INTERVAL": "100ms"}},
		{"url", map[string]string{"EFFICIA_TRACKER_API_URL": "not a url"}},
		{"format", map[string]string{"EFFICIA_LOGGING_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
