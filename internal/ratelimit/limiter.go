// Package ratelimit keeps one token bucket per client key.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter allows Burst requests per Window for each key.
type Limiter struct {
	burst   int
	limit   rate.Limit
	expiry  time.Duration
	clients map[string]*clientLimiter
	mu      sync.Mutex
	now     func() time.Time
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// New creates a limiter refilling burst tokens over window. Idle clients are
// forgotten after one window.
func New(burst int, window time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		burst:   burst,
		limit:   rate.Every(window / time.Duration(burst)),
		expiry:  window,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether key may make a request now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.lastAccess = l.now()
	return cl.limiter.AllowN(cl.lastAccess, 1)
}

// Run evicts idle clients every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evict()
		}
	}
}

func (l *Limiter) evict() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, cl := range l.clients {
		if now.Sub(cl.lastAccess) > l.expiry {
			delete(l.clients, key)
		}
	}
}
