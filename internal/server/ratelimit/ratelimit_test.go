package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *fakeClock) {
	t.Helper()
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	l.now = clock.now
	return l, clock
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(t, DefaultConfig(6, 3))

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("127.0.0.1", http.MethodPost, "/optimize")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 6, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", http.MethodPost, "/optimize")
	assert.False(t, allowed)
	assert.Equal(t, 10*time.Second, info.RetryAfter)
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, DefaultConfig(6, 1))

	allowed, _ := l.Allow("c", http.MethodPost, "/match")
	require.True(t, allowed)
	allowed, _ = l.Allow("c", http.MethodPost, "/match")
	require.False(t, allowed)

	clock.advance(9 * time.Second)
	allowed, _ = l.Allow("c", http.MethodPost, "/match")
	assert.False(t, allowed)

	clock.advance(2 * time.Second)
	allowed, _ = l.Allow("c", http.MethodPost, "/match")
	assert.True(t, allowed)
}

func TestLimiter_SeparateBuckets(t *testing.T) {
	l, _ := newTestLimiter(t, DefaultConfig(1, 1))

	allowed, _ := l.Allow("a", http.MethodPost, "/optimize")
	require.True(t, allowed)

	allowed, _ = l.Allow("a", http.MethodPost, "/export")
	assert.True(t, allowed, "routes do not share a bucket")
	allowed, _ = l.Allow("b", http.MethodPost, "/optimize")
	assert.True(t, allowed, "clients do not share a bucket")
	allowed, _ = l.Allow("a", http.MethodPost, "/optimize")
	assert.False(t, allowed)
}

func TestLimiter_UnlimitedRoutes(t *testing.T) {
	l, _ := newTestLimiter(t, DefaultConfig(1, 1))

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("a", http.MethodGet, "/")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
		allowed, _ = l.Allow("a", http.MethodPost, "/edit")
		require.True(t, allowed)
		allowed, _ = l.Allow("a", http.MethodGet, "/optimize")
		require.True(t, allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	cfg := DefaultConfig(1, 1)
	cfg.Enabled = false
	l, _ := newTestLimiter(t, cfg)

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("a", http.MethodPost, "/optimize")
		assert.True(t, allowed)
	}
}

func TestLimiter_SweepDropsIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(t, DefaultConfig(6, 1))

	l.Allow("a", http.MethodPost, "/optimize")
	clock.advance(30 * time.Minute)
	l.Allow("b", http.MethodPost, "/optimize")
	clock.advance(45 * time.Minute)
	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	_, ok := l.buckets["b POST /optimize"]
	assert.True(t, ok)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(DefaultConfig(1, 1))
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchRule(t *testing.T) {
	rules := []Rule{
		{Method: http.MethodPost, Path: "/records/", Limit: 10, Window: time.Minute},
		{Method: http.MethodPost, Path: "/records/resumes", Limit: 1, Window: time.Minute},
		{Method: http.MethodPost, Path: "/optimize", Limit: 5, Window: time.Minute},
	}

	tests := []struct {
		method, path string
		wantLimit    int
	}{
		{http.MethodPost, "/optimize", 5},
		{http.MethodPost, "/records/resumes", 1},
		{http.MethodPost, "/records/jobs", 10},
		{http.MethodGet, "/optimize", 0},
		{http.MethodPost, "/optimize/extra", 0},
	}

	for _, tt := range tests {
		rule := MatchRule(tt.method, tt.path, rules)
		if tt.wantLimit == 0 {
			assert.Nil(t, rule, "%s %s", tt.method, tt.path)
			continue
		}
		require.NotNil(t, rule, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.wantLimit, rule.Limit)
	}
}
