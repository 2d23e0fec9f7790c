// Package ratelimit provides per-client token bucket limiting for the LLM endpoints.
package ratelimit

import (
	"sync"
	"time"
)

// tokenBucket allows capacity requests at once, refilling at refillRate tokens per second.
type tokenBucket struct {
	capacity   float64
	refillRate float64
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

func (tb *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+elapsed*tb.refillRate)
	}
	tb.lastRefill = now
}

// Info describes the limit state after a request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Limit           int           // requests per Window; <= 0 disables limiting
	Window          time.Duration // refill window
	Burst           int           // bucket capacity, defaults to Limit
	CleanupInterval time.Duration // how often idle buckets are dropped; 0 disables
	IdleTimeout     time.Duration // buckets idle this long are dropped
}

// PerMinute returns a Config allowing limit requests per minute per client.
func PerMinute(limit int) *Config {
	return &Config{
		Limit:           limit,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
	}
}

// Limiter manages one token bucket per client.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	config  Config
	now     func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a limiter. A nil config disables limiting.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{}
	}
	l := &Limiter{
		buckets: make(map[string]*tokenBucket),
		config:  *config,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if l.Enabled() && config.CleanupInterval > 0 {
		go l.cleanup(config.CleanupInterval)
	}
	return l
}

// Enabled reports whether requests are limited at all.
func (l *Limiter) Enabled() bool {
	return l.config.Limit > 0 && l.config.Window > 0
}

// Allow consumes one token for clientID if available.
func (l *Limiter) Allow(clientID string) Info {
	if !l.Enabled() {
		return Info{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bucket, ok := l.buckets[clientID]
	if !ok {
		capacity := l.config.Burst
		if capacity <= 0 {
			capacity = l.config.Limit
		}
		bucket = &tokenBucket{
			capacity:   float64(capacity),
			refillRate: float64(l.config.Limit) / l.config.Window.Seconds(),
			tokens:     float64(capacity),
			lastRefill: now,
		}
		l.buckets[clientID] = bucket
	}
	bucket.refill(now)
	bucket.lastAccess = now

	info := Info{Limit: l.config.Limit}
	if bucket.tokens >= 1 {
		bucket.tokens--
		info.Allowed = true
	} else {
		missing := 1 - bucket.tokens
		info.RetryAfter = time.Duration(missing / bucket.refillRate * float64(time.Second))
	}
	info.Remaining = int(bucket.tokens)
	return info
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.dropIdle()
		case <-l.stop:
			return
		}
	}
}

// dropIdle removes buckets not used within IdleTimeout.
func (l *Limiter) dropIdle() {
	if l.config.IdleTimeout <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.config.IdleTimeout)
	for id, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, id)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
