// Package ratelimiter counts attempts per key in fixed windows.
package ratelimiter

import (
	"sync"
	"time"
)

// window is the attempt count for one key since lastReset.
type window struct {
	count     int
	lastReset time.Time
}

// RateLimiter allows up to limit attempts per key in each interval.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	interval time.Duration
	windows  map[string]*window
	now      func() time.Time
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
		now:      time.Now,
	}
}

// Allow records an attempt for key. When the key is over its limit it
// returns false and how long until the window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		w = &window{lastReset: now}
		rl.windows[key] = w
		rl.sweep(now)
	}

	w.count++
	if w.count > rl.limit {
		return false, rl.interval - now.Sub(w.lastReset)
	}
	return true, 0
}

// sweep drops expired windows so idle keys do not accumulate.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}
