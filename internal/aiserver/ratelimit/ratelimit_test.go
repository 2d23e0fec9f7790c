package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// newTestLimiter returns a limiter whose clock only moves when advance is called.
func newTestLimiter(config *Config) (*Limiter, func(time.Duration)) {
	l := NewLimiter(config)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	l.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	return l, func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}
}

func TestAllow_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(&Config{Limit: 3, Window: time.Minute})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		info := l.Allow("client")
		assert.True(t, info.Allowed, "request %d", i+1)
		assert.Equal(t, 2-i, info.Remaining)
	}

	info := l.Allow("client")
	assert.False(t, info.Allowed)
	assert.Equal(t, 3, info.Limit)
	assert.InDelta(t, 20, info.RetryAfter.Seconds(), 0.01)
}

func TestAllow_Refill(t *testing.T) {
	l, advance := newTestLimiter(&Config{Limit: 60, Window: time.Minute, Burst: 1})
	defer l.Stop()

	assert.True(t, l.Allow("client").Allowed)
	assert.False(t, l.Allow("client").Allowed)

	advance(time.Second)
	assert.True(t, l.Allow("client").Allowed)
	assert.False(t, l.Allow("client").Allowed)
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Limit: 1, Window: time.Minute})
	defer l.Stop()

	assert.True(t, l.Allow("a").Allowed)
	assert.False(t, l.Allow("a").Allowed)
	assert.True(t, l.Allow("b").Allowed)
}

func TestAllow_Disabled(t *testing.T) {
	for _, config := range []*Config{nil, {Limit: 0, Window: time.Minute}, {Limit: -1, Window: time.Minute}} {
		l := NewLimiter(config)
		assert.False(t, l.Enabled())
		for i := 0; i < 100; i++ {
			assert.True(t, l.Allow("client").Allowed)
		}
		l.Stop()
	}
}

func TestDropIdle(t *testing.T) {
	l, advance := newTestLimiter(&Config{Limit: 1, Window: time.Minute, IdleTimeout: time.Hour})
	defer l.Stop()

	l.Allow("old")
	advance(2 * time.Hour)
	l.Allow("new")

	l.dropIdle()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.buckets, "old")
	assert.Contains(t, l.buckets, "new")
}

func TestAllow_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Limit: 50, Window: time.Hour})
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("client").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed, fmt.Sprintf("allowed %d of 100", allowed))
}

func TestPerMinute(t *testing.T) {
	config := PerMinute(30)
	assert.Equal(t, 30, config.Limit)
	assert.Equal(t, time.Minute, config.Window)

	l := NewLimiter(config)
	assert.True(t, l.Enabled())
	l.Stop()
	l.Stop()
}
