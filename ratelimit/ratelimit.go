// Package ratelimit throttles parse requests per client using token
// buckets. OCR work is priced per page, so one large document draws
// down the same budget as several small ones.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultPerMinute is the sustained request budget per client.
	DefaultPerMinute = 30

	// DefaultBurst is the bucket size per client.
	DefaultBurst = 60

	// DefaultPageCost is how many tokens one document page costs.
	DefaultPageCost = 5
)

// Config controls per-client limiter behavior.
type Config struct {
	PerMinute int
	Burst     int
	PageCost  int
}

// DefaultConfig returns the standard request budget.
func DefaultConfig() Config {
	return Config{
		PerMinute: DefaultPerMinute,
		Burst:     DefaultBurst,
		PageCost:  DefaultPageCost,
	}
}

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Registry holds one token bucket per client key. Safe for concurrent
// use.
type Registry struct {
	mu      sync.Mutex
	cfg     Config
	clients map[string]*client
}

// New creates a Registry with the default budget.
func New() *Registry {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Registry with an explicit budget. Zero or
// negative fields fall back to the defaults.
func NewWithConfig(cfg Config) *Registry {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = DefaultPerMinute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.PageCost <= 0 {
		cfg.PageCost = DefaultPageCost
	}
	return &Registry{cfg: cfg, clients: make(map[string]*client)}
}

// Config returns the settings the registry runs with, after defaults
// were applied.
func (r *Registry) Config() Config {
	return r.cfg
}

// Allow reports whether a single-token request by key may proceed now.
// When refused, retryAfter is how long the client should wait before
// trying again.
func (r *Registry) Allow(key string) (ok bool, retryAfter time.Duration) {
	return r.allowN(key, 1)
}

// AllowPages charges for a request covering the given number of pages.
// The cost is pages times PageCost, capped at the bucket size so that
// oversized documents remain servable once the bucket refills.
func (r *Registry) AllowPages(key string, pages int) (ok bool, retryAfter time.Duration) {
	cost := pages * r.cfg.PageCost
	if cost > r.cfg.Burst {
		cost = r.cfg.Burst
	}
	if cost < 1 {
		cost = 1
	}
	return r.allowN(key, cost)
}

func (r *Registry) allowN(key string, n int) (bool, time.Duration) {
	lim := r.limiter(key)

	now := time.Now()
	res := lim.ReserveN(now, n)
	if !res.OK() {
		return false, 0
	}
	delay := res.DelayFrom(now)
	if delay > 0 {
		// Refused requests must not consume tokens.
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// limiter returns the bucket for key, creating it on first use.
func (r *Registry) limiter(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[key]
	if !ok {
		c = &client{
			lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(r.cfg.PerMinute)), r.cfg.Burst),
		}
		r.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.lim
}

// Len returns the number of tracked clients.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Prune drops clients idle for longer than maxIdle and returns how
// many were removed.
func (r *Registry) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for key, c := range r.clients {
		if c.lastSeen.Before(cutoff) {
			delete(r.clients, key)
			removed++
		}
	}
	return removed
}
