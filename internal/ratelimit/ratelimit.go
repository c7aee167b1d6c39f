package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket. A bucket of size 1 with a 2s refill spaces calls
// at least 2s apart, which is how forum search requests are paced.
type Limiter struct {
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
	mu         sync.Mutex
	now        func() time.Time
}

// New creates a limiter holding up to maxTokens, adding one every refillRate
func New(maxTokens int, refillRate time.Duration) *Limiter {
	if maxTokens < 1 {
		maxTokens = 1
	}
	return &Limiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// Wait blocks until a token is available or ctx is done
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		wait := l.reserve()
		if wait <= 0 {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve takes a token if one is available, otherwise returns how long until the next refill
func (l *Limiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.refillRate <= 0 {
		return 0
	}

	now := l.now()
	if add := int(now.Sub(l.lastRefill) / l.refillRate); add > 0 {
		l.tokens += add
		if l.tokens > l.maxTokens {
			l.tokens = l.maxTokens
		}
		l.lastRefill = l.lastRefill.Add(time.Duration(add) * l.refillRate)
	}

	if l.tokens > 0 {
		l.tokens--
		return 0
	}
	return l.refillRate - now.Sub(l.lastRefill)
}

// Multi keeps one limiter per host
type Multi struct {
	limiters map[string]*Limiter
	mu       sync.RWMutex
}

func NewMulti() *Multi {
	return &Multi{limiters: make(map[string]*Limiter)}
}

// Add registers a limiter for key, replacing any existing one
func (m *Multi) Add(key string, maxTokens int, refillRate time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[key] = New(maxTokens, refillRate)
}

// Wait waits on key's limiter; unknown keys are not limited
func (m *Multi) Wait(ctx context.Context, key string) error {
	m.mu.RLock()
	l, ok := m.limiters[key]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return l.Wait(ctx)
}

// Get returns key's limiter or nil
func (m *Multi) Get(key string) *Limiter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.limiters[key]
}
