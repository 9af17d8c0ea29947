// Package gate holds the request-gating checks applied to the public
// submission endpoint: the per-IP rate limiter and the origin heuristic.
package gate

import (
	"sync"
	"time"
)

type windowEntry struct {
	count   int
	resetAt time.Time
}

// Limiter counts accepted submissions per client IP over a fixed window.
// State is process-local and non-persistent; horizontally scaled deployments
// need a shared store instead.
//
// Check peeks without consuming so that requests rejected by later gate
// layers do not burn a slot; Record increments only after the full chain has
// passed.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*windowEntry
	now     func() time.Time
}

func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		entries: map[string]*windowEntry{},
		now:     time.Now,
	}
}

// NewLimiterAt is like NewLimiter with an injectable clock, for tests.
func NewLimiterAt(max int, window time.Duration, now func() time.Time) *Limiter {
	l := NewLimiter(max, window)
	l.now = now
	return l
}

// Check reports whether ip has budget left in the current window. When the
// limit is exhausted it returns ok=false and the seconds until the window
// resets. The counter is not touched.
func (l *Limiter) Check(ip string) (retryAfter time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entry(ip)
	if e.count >= l.max {
		return e.resetAt.Sub(l.now()), false
	}
	return 0, true
}

// Record consumes one slot for ip. Call only after every other gate check has
// passed.
func (l *Limiter) Record(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entry(ip).count++
}

// entry returns the live window for ip, lazily resetting an expired one.
// Caller must hold mu.
func (l *Limiter) entry(ip string) *windowEntry {
	nowT := l.now()
	e := l.entries[ip]
	if e == nil || !nowT.Before(e.resetAt) {
		e = &windowEntry{resetAt: nowT.Add(l.window)}
		l.entries[ip] = e
	}
	return e
}
