// Package rate throttles mutation requests per learner.
package rate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter struct {
	Burst    int
	LimitRPS float64
	Expiry   time.Duration

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewLimiter(burst int, limitRPS float64, expiry time.Duration) *Limiter {
	return &Limiter{
		Burst:    burst,
		LimitRPS: limitRPS,
		Expiry:   expiry,
		clients:  make(map[string]*clientLimiter),
	}
}

// Check reports whether the client identified by id may proceed now.
func (l *Limiter) Check(id string) bool {
	return l.allowAt(id, time.Now())
}

func (l *Limiter) allowAt(id string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[id]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.LimitRPS), l.Burst)}
		l.clients[id] = cl
	}
	cl.lastAccess = now
	return cl.limiter.AllowN(now, 1)
}

// Run forgets idle clients every minute until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			l.sweep(now)
		}
	}
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, v := range l.clients {
		if now.Sub(v.lastAccess) > l.Expiry {
			delete(l.clients, id)
		}
	}
}

func Every(interval time.Duration) float64 {
	return float64(rate.Every(interval))
}
