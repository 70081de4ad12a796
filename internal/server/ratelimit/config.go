package ratelimit

import (
	"net/http"
	"time"
)

// Rule limits one console route.
type Rule struct {
	Method string        // HTTP method
	Path   string        // exact path, or a prefix when it ends in "/"
	Limit  int           // requests per Window
	Window time.Duration // refill window
	Burst  int           // bucket capacity; Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	Rules   []Rule
	// IdleTTL is how long an unused bucket is kept.
	IdleTTL         time.Duration
	CleanupInterval time.Duration
}

// BackendRoutes are the console routes that each trigger a paid backend call.
var BackendRoutes = []string{"/optimize", "/match", "/generate", "/export", "/upload"}

// DefaultConfig throttles every backend-bound route to limit requests per
// minute with the given burst.
func DefaultConfig(limit, burst int) Config {
	rules := make([]Rule, 0, len(BackendRoutes))
	for _, path := range BackendRoutes {
		rules = append(rules, Rule{
			Method: http.MethodPost,
			Path:   path,
			Limit:  limit,
			Window: time.Minute,
			Burst:  burst,
		})
	}
	return Config{
		Enabled:         true,
		Rules:           rules,
		IdleTTL:         time.Hour,
		CleanupInterval: 5 * time.Minute,
	}
}
