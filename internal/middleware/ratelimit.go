package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimitMiddleware counts requests per client address over a sliding
// window. Clients with no request inside the window are forgotten, so the
// table only holds recently active addresses.
type RateLimitMiddleware struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	now       func() time.Time
	lastSweep time.Time
}

func NewRateLimitMiddleware() *RateLimitMiddleware {
	return &RateLimitMiddleware{
		hits: make(map[string][]time.Time),
		now:  time.Now,
	}
}

// RateLimit allows at most maxRequests per client inside window and answers
// 429 beyond that.
func (m *RateLimitMiddleware) RateLimit(maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.allow(getClientIP(r), maxRequests, window) {
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *RateLimitMiddleware) allow(client string, maxRequests int, window time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-window)
	if now.Sub(m.lastSweep) >= window {
		m.sweep(cutoff)
		m.lastSweep = now
	}

	recent := inWindow(m.hits[client], cutoff)
	if len(recent) >= maxRequests {
		m.hits[client] = recent
		return false
	}
	m.hits[client] = append(recent, now)
	return true
}

// sweep drops every client whose requests all fall before cutoff.
// Callers hold m.mu.
func (m *RateLimitMiddleware) sweep(cutoff time.Time) {
	for client, stamps := range m.hits {
		if recent := inWindow(stamps, cutoff); len(recent) == 0 {
			delete(m.hits, client)
		} else {
			m.hits[client] = recent
		}
	}
}

// tracked reports how many client addresses are currently held.
func (m *RateLimitMiddleware) tracked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.hits)
}

// inWindow returns the suffix of stamps at or after cutoff. Stamps are
// appended in order, so the first match ends the scan.
func inWindow(stamps []time.Time, cutoff time.Time) []time.Time {
	for i, ts := range stamps {
		if !ts.Before(cutoff) {
			return stamps[i:]
		}
	}
	return nil
}

// getClientIP prefers proxy headers over the socket address.
func getClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	ip := r.RemoteAddr
	if i := strings.LastIndex(ip, ":"); i != -1 {
		ip = ip[:i]
	}
	return ip
}
