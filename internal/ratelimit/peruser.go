package ratelimit

import (
	"sync"
	"time"
)

// PerUserConfig configures a PerUserLimiter.
type PerUserConfig struct {
	MaxTokens     float64       // Burst capacity per user
	RefillRate    float64       // Tokens refilled per second
	CleanupPeriod time.Duration // How often idle buckets are dropped
}

// PerUserLimiter keeps one token bucket per user ID and drops buckets
// that have refilled completely, so memory stays bounded by the number
// of recently active users.
type PerUserLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	config   PerUserConfig
	onDrop   func()
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPerUserLimiter creates a per-user limiter and starts its cleanup
// goroutine. Call Stop when done.
func NewPerUserLimiter(cfg PerUserConfig) *PerUserLimiter {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 5 * time.Minute
	}
	pul := &PerUserLimiter{
		limiters: make(map[string]*Limiter),
		config:   cfg,
		stopCh:   make(chan struct{}),
	}

	go pul.cleanupLoop()

	return pul
}

// OnDrop registers a callback invoked whenever a request is rejected.
func (pul *PerUserLimiter) OnDrop(fn func()) {
	pul.onDrop = fn
}

// Allow reports whether a request from userID may proceed. An empty
// user ID is never limited.
func (pul *PerUserLimiter) Allow(userID string) bool {
	if userID == "" {
		return true
	}

	pul.mu.RLock()
	limiter, exists := pul.limiters[userID]
	pul.mu.RUnlock()

	if !exists {
		pul.mu.Lock()
		limiter, exists = pul.limiters[userID]
		if !exists {
			limiter = New(pul.config.MaxTokens, pul.config.RefillRate)
			pul.limiters[userID] = limiter
		}
		pul.mu.Unlock()
	}

	allowed := limiter.Allow()
	if !allowed && pul.onDrop != nil {
		pul.onDrop()
	}
	return allowed
}

// ActiveCount returns the number of tracked users.
func (pul *PerUserLimiter) ActiveCount() int {
	pul.mu.RLock()
	defer pul.mu.RUnlock()
	return len(pul.limiters)
}

func (pul *PerUserLimiter) cleanupLoop() {
	ticker := time.NewTicker(pul.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-pul.stopCh:
			return
		case <-ticker.C:
			pul.mu.Lock()
			for userID, limiter := range pul.limiters {
				if limiter.IsFull() {
					delete(pul.limiters, userID)
				}
			}
			pul.mu.Unlock()
		}
	}
}

// Stop terminates the cleanup goroutine. Safe to call multiple times.
func (pul *PerUserLimiter) Stop() {
	pul.stopOnce.Do(func() { close(pul.stopCh) })
}
