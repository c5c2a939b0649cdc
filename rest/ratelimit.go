package rest

import (
	"sync"
	"time"
)

// RateLimiter caps attempts per identifier inside a sliding window. It is in
// memory only; counters reset on restart, which is acceptable for throttling
// outbound mail.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string]int
	lastTry  map[string]time.Time
	window   time.Duration
	maxTries int
}

// NewRateLimiter allows maxTries attempts per identifier within window.
func NewRateLimiter(window time.Duration, maxTries int) *RateLimiter {
	return &RateLimiter{
		attempts: make(map[string]int),
		lastTry:  make(map[string]time.Time),
		window:   window,
		maxTries: maxTries,
	}
}

// Allow reports whether the identifier may proceed and counts the attempt.
func (rl *RateLimiter) Allow(identifier string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	lastTry, exists := rl.lastTry[identifier]

	if !exists || now.Sub(lastTry) > rl.window {
		rl.attempts[identifier] = 1
		rl.lastTry[identifier] = now
		return true
	}

	if rl.attempts[identifier] >= rl.maxTries {
		return false
	}

	rl.attempts[identifier]++
	rl.lastTry[identifier] = now
	return true
}

// Cleanup drops identifiers whose window has passed. Call periodically to
// keep the maps from growing without bound.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for id, lastTry := range rl.lastTry {
		if now.Sub(lastTry) > rl.window {
			delete(rl.attempts, id)
			delete(rl.lastTry, id)
		}
	}
}
