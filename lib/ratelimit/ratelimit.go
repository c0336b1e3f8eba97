package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 10
	DefaultWindow = time.Minute
)

// Decision is the outcome of an admission check. A rejected decision is
// not an error, callers surface it as a distinct "retry later" condition.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type Config struct {
	// Limit is the maximum number of admitted requests per key per window.
	Limit int
	// Window is the length of the sliding admission window.
	Window time.Duration
	// Now may be overridden in tests.
	Now func() time.Time
}

// Limiter tracks, per key, the timestamps of admitted requests inside a
// sliding window. State lives for the process lifetime only.
type Limiter struct {
	mu      sync.Mutex
	now     func() time.Time
	limit   int
	window  time.Duration
	clients map[string][]time.Time
}

func NewLimiter(cfg Config) *Limiter {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Limiter{
		now:     cfg.Now,
		limit:   cfg.Limit,
		window:  cfg.Window,
		clients: make(map[string][]time.Time),
	}
}

// Allow prunes timestamps older than the window for `key`, then either
// records the current time and admits, or rejects without recording.
// Entries are only ever pruned here, there is no background cleanup.
func (l *Limiter) Allow(key string) Decision {
	now := l.now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.clients[key][:0]
	for _, t := range l.clients[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.clients[key] = recent
		return Decision{
			Allowed:   false,
			Limit:     l.limit,
			Remaining: 0,
			ResetAt:   recent[0].Add(l.window),
		}
	}

	recent = append(recent, now)
	l.clients[key] = recent
	return Decision{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - len(recent),
		ResetAt:   recent[0].Add(l.window),
	}
}
