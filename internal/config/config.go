// Package config loads client settings from defaults, an optional JSON file and
// RESUME_* environment variables, in that order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults.
const (
	DefaultAPIURL       = "http://localhost:8000"
	DefaultTimeout      = 60 * time.Second
	DefaultSessionStore = "file"
	DefaultConsoleHost  = "127.0.0.1"
	DefaultConsolePort  = 8080
	DefaultRateLimit    = 10 // backend-bound console requests per minute
	DefaultRateBurst    = 3
)

// Duration is a time.Duration that reads "90s" style strings or plain seconds from JSON.
type Duration time.Duration

// UnmarshalJSON accepts "1m30s" or 90.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config is the client configuration.
type Config struct {
	// Backend
	APIURL    string   `json:"api_url,omitempty" validate:"required,url"`
	Timeout   Duration `json:"timeout,omitempty" validate:"gt=0"`
	UserAgent string   `json:"user_agent,omitempty"`

	// Local state
	SessionStore string `json:"session_store,omitempty" validate:"required,oneof=file sqlite memory"`
	StateDir     string `json:"state_dir,omitempty"`
	RequireAuth  bool   `json:"require_auth,omitempty"`

	// Console
	ConsoleHost        string `json:"console_host,omitempty"`
	ConsolePort        int    `json:"console_port,omitempty" validate:"gte=0,lte=65535"`
	RateLimitDisabled  bool   `json:"rate_limit_disabled,omitempty"`
	RateLimitPerMinute int    `json:"rate_limit_per_minute,omitempty" validate:"gte=0"`
	RateLimitBurst     int    `json:"rate_limit_burst,omitempty" validate:"gte=0"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIURL:             DefaultAPIURL,
		Timeout:            Duration(DefaultTimeout),
		SessionStore:       DefaultSessionStore,
		StateDir:           DefaultStateDir(),
		ConsoleHost:        DefaultConsoleHost,
		ConsolePort:        DefaultConsolePort,
		RateLimitPerMinute: DefaultRateLimit,
		RateLimitBurst:     DefaultRateBurst,
	}
}

// DefaultStateDir is where the session and buffer are kept.
func DefaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "resume-optimizer")
	}
	return ".resume-optimizer"
}

// Load builds the effective configuration. path may be empty.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from RESUME_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("RESUME_API_URL"); v != "" {
		c.APIURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("RESUME_API_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RESUME_API_TIMEOUT: %w", err)
		}
		c.Timeout = Duration(d)
	}
	if v := os.Getenv("RESUME_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("RESUME_SESSION_STORE"); v != "" {
		c.SessionStore = strings.ToLower(v)
	}
	if v := os.Getenv("RESUME_STATE_DIR"); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv("RESUME_CONSOLE_HOST"); v != "" {
		c.ConsoleHost = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"RESUME_CONSOLE_PORT", &c.ConsolePort},
		{"RESUME_RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute},
		{"RESUME_RATE_LIMIT_BURST", &c.RateLimitBurst},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %v", e.key, err)
			}
			*e.dst = n
		}
	}

	if v := os.Getenv("RESUME_REQUIRE_AUTH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RESUME_REQUIRE_AUTH: %v", err)
		}
		c.RequireAuth = b
	}
	if v := os.Getenv("RESUME_RATE_LIMIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RESUME_RATE_LIMIT_ENABLED: %v", err)
		}
		c.RateLimitDisabled = !b
	}
	return nil
}

// parseDuration accepts Go durations or a bare number of seconds.
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

var validate = validator.New()

// Validate checks field values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("'%s' failed '%s' (value %v)", jsonName(fe.Field()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// jsonName maps a struct field to its JSON key for error messages.
func jsonName(field string) string {
	switch field {
	case "APIURL":
		return "api_url"
	case "Timeout":
		return "timeout"
	case "SessionStore":
		return "session_store"
	case "ConsolePort":
		return "console_port"
	case "RateLimitPerMinute":
		return "rate_limit_per_minute"
	case "RateLimitBurst":
		return "rate_limit_burst"
	default:
		return field
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIURL == "" {
		result.APIURL = defaults.APIURL
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.SessionStore == "" {
		result.SessionStore = defaults.SessionStore
	}
	if result.StateDir == "" {
		result.StateDir = defaults.StateDir
	}
	if result.ConsoleHost == "" {
		result.ConsoleHost = defaults.ConsoleHost
	}
	if result.ConsolePort == 0 {
		result.ConsolePort = defaults.ConsolePort
	}
	if result.RateLimitPerMinute == 0 {
		result.RateLimitPerMinute = defaults.RateLimitPerMinute
	}
	if result.RateLimitBurst == 0 {
		result.RateLimitBurst = defaults.RateLimitBurst
	}

	// Bool fields: cannot distinguish unset from false, so a file can only turn them on.
	result.RequireAuth = result.RequireAuth || defaults.RequireAuth
	result.RateLimitDisabled = result.RateLimitDisabled || defaults.RateLimitDisabled

	return result
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout)
}
