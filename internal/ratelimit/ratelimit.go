package ratelimit

import (
	"sync"
	"time"

	gerr "github.com/jekabolt/salon-analytics/internal/errors"
	"golang.org/x/time/rate"
)

type Config struct {
	Window time.Duration `mapstructure:"window"`
	Max    int           `mapstructure:"max"`
}

// Limiter is an in-memory token bucket per client key. Each key may burst
// up to Max requests and regains Max tokens per Window.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	window  time.Duration
	max     int
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter creates a limiter allowing max requests per window. A zero
// config allows 120 requests per minute.
func NewLimiter(c Config) *Limiter {
	return newLimiter(c, time.Now)
}

func newLimiter(c Config, now func() time.Time) *Limiter {
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.Max <= 0 {
		c.Max = 120
	}
	l := &Limiter{
		clients: make(map[string]*clientLimiter),
		window:  c.Window,
		max:     c.Max,
		now:     now,
		stop:    make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *Limiter) get(key string, now time.Time) *rate.Limiter {
	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Allow checks if a request for the given key is allowed
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	return l.get(key, now).AllowN(now, 1)
}

// Check is Allow reported as gerr.ErrRateLimited.
func (l *Limiter) Check(key string) error {
	if !l.Allow(key) {
		return gerr.ErrRateLimited
	}
	return nil
}

// Remaining returns the number of whole requests the key may still burst.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		return l.max
	}
	if tokens := int(c.limiter.TokensAt(l.now())); tokens > 0 {
		return tokens
	}
	return 0
}

// Stop ends the background cleanup.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

// evictIdle drops keys unseen for a full window; their bucket is full again anyway.
func (l *Limiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.window {
			delete(l.clients, key)
		}
	}
}
