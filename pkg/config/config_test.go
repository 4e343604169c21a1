package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's own config and .env files out of the test
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PORT", "")
	for _, key := range []string{
		"ENDPOINT", "API_TOKEN", "USER_AGENT", "REQUESTS_PER_MINUTE", "OUTPUT_DIR",
		"FILENAME", "ADDR", "NOTIFICATIONS_ENABLED", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(envPrefix+key, "")
	}
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultEndpoint, cfg.Extraction.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Extraction.Timeout)
	assert.NotEmpty(t, cfg.Extraction.UserAgent)
	assert.Equal(t, "instagram-reel.mp4", cfg.Download.Filename)
	assert.Equal(t, "./downloads", cfg.Download.OutputDir)
	assert.False(t, cfg.Download.OverwriteExisting)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Server.MaxConcurrent)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("REELGRAB_ENDPOINT", "https://extract.example.com/reel")
	t.Setenv("REELGRAB_API_TOKEN", "secret")
	t.Setenv("REELGRAB_REQUESTS_PER_MINUTE", "5")
	t.Setenv("REELGRAB_OUTPUT_DIR", "/tmp/reels")
	t.Setenv("REELGRAB_NOTIFICATIONS_ENABLED", "false")
	t.Setenv("REELGRAB_LOG_LEVEL", "debug")
	t.Setenv("PORT", "9999")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "https://extract.example.com/reel", cfg.Extraction.Endpoint)
	assert.Equal(t, "secret", cfg.Extraction.APIToken)
	assert.Equal(t, 5, cfg.Extraction.RequestsPerMinute)
	assert.Equal(t, "/tmp/reels", cfg.Download.OutputDir)
	assert.False(t, cfg.Notifications.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadFromEnvRejectsBadNumbers(t *testing.T) {
	isolate(t)
	t.Setenv("REELGRAB_REQUESTS_PER_MINUTE", "lots")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUESTS_PER_MINUTE")
	assert.Equal(t, 30, cfg.Extraction.RequestsPerMinute)
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
extraction:
  endpoint: "http://localhost:3000/reel"
  timeout: 5s
download:
  filename: "clip.mp4"
  max_file_size: 1048576
server:
  addr: "127.0.0.1:9000"
logging:
  level: "warn"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "http://localhost:3000/reel", cfg.Extraction.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Extraction.Timeout)
	assert.Equal(t, "clip.mp4", cfg.Download.Filename)
	assert.Equal(t, int64(1048576), cfg.Download.MaxFileSize)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// untouched sections keep their defaults
	assert.Equal(t, 4, cfg.Server.MaxConcurrent)
}

func TestLoadFromFileErrors(t *testing.T) {
	isolate(t)

	t.Run("missing explicit file", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("extraction: [oops"), 0644))
		cfg := DefaultConfig()
		assert.Error(t, cfg.LoadFromFile(path))
	})

	t.Run("no file in default locations", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.NoError(t, cfg.LoadFromFile(""))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative endpoint", func(c *Config) { c.Extraction.Endpoint = "/reel" }},
		{"ftp endpoint", func(c *Config) { c.Extraction.Endpoint = "ftp://example.com/reel" }},
		{"zero timeout", func(c *Config) { c.Extraction.Timeout = 0 }},
		{"filename with directory", func(c *Config) { c.Download.Filename = "../evil.mp4" }},
		{"empty output dir", func(c *Config) { c.Download.OutputDir = "" }},
		{"negative max size", func(c *Config) { c.Download.MaxFileSize = -1 }},
		{"no server workers", func(c *Config) { c.Server.MaxConcurrent = 0 }},
		{"zero session ttl", func(c *Config) { c.Server.SessionTTL = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extraction.Timeout = 0
	cfg.Logging.Level = "chatty"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction timeout")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Download.Filename = "reel.mp4"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "reel.mp4", loaded.Download.Filename)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  output_dir: from-file\n  filename: file.mp4\n"), 0644))
	t.Setenv("REELGRAB_OUTPUT_DIR", "from-env")

	cfg, err := Load(path, map[string]interface{}{"filename": "flag.mp4"})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Download.OutputDir)
	assert.Equal(t, "flag.mp4", cfg.Download.Filename)
}

func TestMergeLogFileOnly(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Logging.FileOnly)

	cfg.MergeCommandLineFlags(map[string]interface{}{"log-file-only": true})
	assert.True(t, cfg.Logging.FileOnly)
}

func TestLoadFailsValidation(t *testing.T) {
	isolate(t)
	_, err := Load("", map[string]interface{}{"log-level": "shouty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
