package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// UnknownClient is the bucket shared by requests without a usable address.
const UnknownClient = "unknown"

// Limiter decides whether a client may make another request.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Config holds rate limiter configuration
type Config struct {
	// Window is the length of one counting window
	Window time.Duration
	// MaxRequests is the number of requests allowed per window
	MaxRequests int
}

// DefaultConfig returns 100 requests per 15 minutes.
func DefaultConfig() Config {
	return Config{
		Window:      15 * time.Minute,
		MaxRequests: 100,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.MaxRequests <= 0 {
		c.MaxRequests = def.MaxRequests
	}
	return c
}

// entry is the counter for one client within its current window
type entry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps counters in process memory. State is lost on restart
// and entries are never evicted, so the map grows with the number of
// distinct clients seen.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	config  Config
	now     func() time.Time
}

// NewMemoryLimiter creates an in-memory fixed-window limiter.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*entry),
		config:  cfg.withDefaults(),
		now:     time.Now,
	}
}

// Allow counts the request against key's window and reports whether it is
// within the limit. The first request after a window elapses starts a new one.
func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || !now.Before(e.resetAt) {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(l.config.Window)}
		return true
	}

	e.count++
	return e.count <= l.config.MaxRequests
}

// Config returns the effective configuration.
func (l *MemoryLimiter) Config() Config {
	return l.config
}

// Len returns the current number of tracked clients.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ClientKey derives the limiter key for r: the peer address, else the first
// X-Forwarded-For hop, else UnknownClient.
func ClientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" && !strings.Contains(r.RemoteAddr, ":") {
		return r.RemoteAddr
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	return UnknownClient
}
