package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"intersectionreg/internal/cache"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(cfg Config) (*MemoryLimiter, *clock) {
	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(cfg)
	l.now = clk.Now
	return l, clk
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 15*time.Minute, cfg.Window)
	assert.Equal(t, 100, cfg.MaxRequests)

	l := NewMemoryLimiter(Config{})
	assert.Equal(t, cfg, l.Config())
}

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	ctx := context.Background()
	l, clk := newTestLimiter(DefaultConfig())

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow(ctx, "10.0.0.1"), "request %d should be allowed", i+1)
	}
	assert.False(t, l.Allow(ctx, "10.0.0.1"), "request 101 should be rejected")
	assert.False(t, l.Allow(ctx, "10.0.0.1"), "request 102 should be rejected")

	clk.Advance(15*time.Minute - time.Second)
	assert.False(t, l.Allow(ctx, "10.0.0.1"), "window has not elapsed yet")

	clk.Advance(time.Second)
	assert.True(t, l.Allow(ctx, "10.0.0.1"), "counter resets once the window elapses")
	for i := 1; i < 100; i++ {
		assert.True(t, l.Allow(ctx, "10.0.0.1"))
	}
	assert.False(t, l.Allow(ctx, "10.0.0.1"))
}

func TestMemoryLimiter_ClientsAreIndependent(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(Config{Window: time.Minute, MaxRequests: 2})

	assert.True(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "a"))
	assert.False(t, l.Allow(ctx, "a"))

	assert.True(t, l.Allow(ctx, "b"))
	assert.Equal(t, 2, l.Len())
}

func TestMemoryLimiter_BurstAcrossBoundary(t *testing.T) {
	ctx := context.Background()
	l, clk := newTestLimiter(Config{Window: time.Minute, MaxRequests: 3})

	assert.True(t, l.Allow(ctx, "a"))
	clk.Advance(59 * time.Second)
	assert.True(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "a"))
	clk.Advance(time.Second)

	// A fresh window starts right away, allowing a second full burst.
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(ctx, "a"))
	}
	assert.False(t, l.Allow(ctx, "a"))
}

func TestMemoryLimiter_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(Config{Window: time.Hour, MaxRequests: 50})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow(ctx, "shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		expected   string
	}{
		{name: "peer address", remoteAddr: "192.168.1.10:51234", forwarded: "203.0.113.5", expected: "192.168.1.10"},
		{name: "ipv6 peer", remoteAddr: "[::1]:8080", expected: "::1"},
		{name: "forwarded fallback", remoteAddr: "", forwarded: "203.0.113.5, 10.0.0.1", expected: "203.0.113.5"},
		{name: "unknown", remoteAddr: "", expected: UnknownClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dropdown-data", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.expected, ClientKey(req))
		})
	}
}

func TestRedisLimiter_FallsBackWithoutRedis(t *testing.T) {
	ctx := context.Background()
	l := NewRedisLimiter(&cache.Client{}, Config{Window: time.Minute, MaxRequests: 2}, zap.NewNop())

	assert.True(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "a"))
	assert.False(t, l.Allow(ctx, "a"))
	assert.Equal(t, 1, l.fallback.Len())
}

func TestRedisLimiter_CounterWithoutExpiryResets(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	c := cache.New(s.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	l := NewRedisLimiter(c, Config{Window: time.Minute, MaxRequests: 3}, zap.NewNop())

	// Over the limit and never given a TTL.
	require.NoError(t, s.Set(redisKeyPrefix+"10.0.0.9", "3"))

	assert.False(t, l.Allow(ctx, "10.0.0.9"))
	assert.Equal(t, time.Minute, s.TTL(redisKeyPrefix+"10.0.0.9"))

	s.FastForward(time.Minute)

	assert.True(t, l.Allow(ctx, "10.0.0.9"))
	assert.True(t, l.Allow(ctx, "10.0.0.9"))
	assert.True(t, l.Allow(ctx, "10.0.0.9"))
	assert.False(t, l.Allow(ctx, "10.0.0.9"))
	assert.Zero(t, l.fallback.Len())
}
