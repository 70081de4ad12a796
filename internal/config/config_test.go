package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every RESUME_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RESUME_API_URL", "RESUME_API_TIMEOUT", "RESUME_USER_AGENT", "RESUME_SESSION_STORE",
		"RESUME_STATE_DIR", "RESUME_CONSOLE_HOST", "RESUME_CONSOLE_PORT", "RESUME_REQUIRE_AUTH",
		"RESUME_RATE_LIMIT_ENABLED", "RESUME_RATE_LIMIT_PER_MINUTE", "RESUME_RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultTimeout, time.Duration(cfg.Timeout))
	assert.Equal(t, "file", cfg.SessionStore)
	assert.Equal(t, DefaultConsolePort, cfg.ConsolePort)
	assert.False(t, cfg.RequireAuth)
	assert.False(t, cfg.RateLimitDisabled)
	assert.NotEmpty(t, cfg.StateDir)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{
		"api_url": "https://file.example",
		"timeout": "90s",
		"session_store": "sqlite",
		"console_port": 9000
	}`)
	t.Setenv("RESUME_API_URL", "https://env.example/")
	t.Setenv("RESUME_REQUIRE_AUTH", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.APIURL)
	assert.Equal(t, 90*time.Second, time.Duration(cfg.Timeout))
	assert.Equal(t, "sqlite", cfg.SessionStore)
	assert.Equal(t, 9000, cfg.ConsolePort)
	assert.True(t, cfg.RequireAuth)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimitPerMinute)
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("RESUME_API_TIMEOUT", "15")
	t.Setenv("RESUME_SESSION_STORE", "SQLITE")
	t.Setenv("RESUME_CONSOLE_PORT", "8123")
	t.Setenv("RESUME_RATE_LIMIT_ENABLED", "false")
	t.Setenv("RESUME_STATE_DIR", "/tmp/state")

	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 15*time.Second, time.Duration(cfg.Timeout))
	assert.Equal(t, "sqlite", cfg.SessionStore)
	assert.Equal(t, 8123, cfg.ConsolePort)
	assert.True(t, cfg.RateLimitDisabled)
	assert.Equal(t, "/tmp/state", cfg.StateDir)
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"RESUME_API_TIMEOUT":  "soon",
		"RESUME_CONSOLE_PORT": "eighty",
		"RESUME_REQUIRE_AUTH": "maybe",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			cfg := Defaults()
			err := cfg.ApplyEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_BadDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"timeout": "forever"}`))
	assert.Error(t, err)
}

func TestLoadConfig_NumericDuration(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"timeout": 2.5}`))
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, time.Duration(cfg.Timeout))
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing url", mutate: func(c *Config) { c.APIURL = "" }, wantErr: "api_url"},
		{name: "bad url", mutate: func(c *Config) { c.APIURL = "not a url" }, wantErr: "api_url"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: "timeout"},
		{name: "unknown store", mutate: func(c *Config) { c.SessionStore = "redis" }, wantErr: "session_store"},
		{name: "port out of range", mutate: func(c *Config) { c.ConsolePort = 70000 }, wantErr: "console_port"},
		{name: "negative burst", mutate: func(c *Config) { c.RateLimitBurst = -1 }, wantErr: "rate_limit_burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Defaults()
	partial := Config{
		APIURL:      "https://custom.example",
		RequireAuth: true,
	}

	merged := partial.MergeWithDefaults(defaults)

	assert.Equal(t, "https://custom.example", merged.APIURL)
	assert.True(t, merged.RequireAuth)
	assert.Equal(t, defaults.Timeout, merged.Timeout)
	assert.Equal(t, defaults.SessionStore, merged.SessionStore)
	assert.Equal(t, defaults.ConsolePort, merged.ConsolePort)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{APIURL: "https://x.example"}
	merged := cfg.MergeWithDefaults(Config{})
	assert.Equal(t, "https://x.example", merged.APIURL)
	assert.Zero(t, merged.ConsolePort)
}
