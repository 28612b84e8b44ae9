package middleware

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RealIP returns the client address. Forwarding headers are honoured only
// when the direct peer is a loopback proxy; anyone else could forge them.
func RealIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		return host
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return host
}

// Policy allows Limit hits per key within Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

type entry struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts hits per key in fixed windows, in memory.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow records a hit and reports whether key is still within p.
func (rl *RateLimiter) Allow(key string, p Policy) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	e := rl.hitLocked(key, p)
	return e.count <= p.Limit
}

func (rl *RateLimiter) hitLocked(key string, p Policy) *entry {
	now := rl.now()
	e, ok := rl.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{resetAt: now.Add(p.Window)}
		rl.entries[key] = e
	}
	e.count++
	return e
}

// Blocked reports whether key has used up p, and for how long it stays
// blocked. It does not count as a hit.
func (rl *RateLimiter) Blocked(key string, p Policy) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	e, ok := rl.entries[key]
	now := rl.now()
	if !ok || !now.Before(e.resetAt) || e.count < p.Limit {
		return false, 0
	}
	return true, e.resetAt.Sub(now)
}

// Fail records one failed attempt for key.
func (rl *RateLimiter) Fail(key string, p Policy) {
	rl.mu.Lock()
	rl.hitLocked(key, p)
	rl.mu.Unlock()
}

// Reset forgets key, e.g. after a successful sign-in.
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	delete(rl.entries, key)
	rl.mu.Unlock()
}

// retryAfter is how long key must wait, rounded up to whole seconds.
func (rl *RateLimiter) retryAfter(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	e, ok := rl.entries[key]
	if !ok {
		return 0
	}
	return int(math.Ceil(e.resetAt.Sub(rl.now()).Seconds()))
}

// Cleanup removes expired entries.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, e := range rl.entries {
		if !now.Before(e.resetAt) {
			delete(rl.entries, key)
		}
	}
}

// RunCleanup drops expired entries every interval until ctx is done.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

// ByIPAndPath keys requests by client address and route, so each sign-in
// endpoint has its own budget.
func ByIPAndPath(r *http.Request) string {
	return RealIP(r) + " " + r.URL.Path
}

func tooManyRequests(w http.ResponseWriter, retryAfter int) {
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]string{"error": "Too many attempts. Try again later."})
}

// RateLimit counts every request against p. Used where each request has a
// cost, such as emailing a sign-in code.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string, p Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if !limiter.Allow(key, p) {
				tooManyRequests(w, limiter.retryAfter(key))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ThrottleFailures counts only rejected attempts (400, 401 and 403) against
// p and clears the count on success, so a user who signs in correctly is
// never locked out by earlier typos.
func ThrottleFailures(limiter *RateLimiter, keyFunc func(*http.Request) string, p Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if blocked, wait := limiter.Blocked(key, p); blocked {
				tooManyRequests(w, int(math.Ceil(wait.Seconds())))
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			switch {
			case rec.status == http.StatusBadRequest, rec.status == http.StatusUnauthorized, rec.status == http.StatusForbidden:
				limiter.Fail(key, p)
			case rec.status < 300:
				limiter.Reset(key)
			}
		})
	}
}
