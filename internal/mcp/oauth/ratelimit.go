package oauth

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitorIdleTimeout is how long an IP may be idle before its limiter is dropped.
const visitorIdleTimeout = 10 * time.Minute

// RateLimiter applies a token-bucket limit per client IP.
type RateLimiter struct {
	mu         sync.Mutex
	visitors   map[string]*visitor
	rate       rate.Limit
	burst      int
	trustProxy bool
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a per-IP rate limiter allowing ratePerSecond requests
// with the given burst. trustProxy controls whether proxy headers are used to
// determine the client IP.
func NewRateLimiter(ratePerSecond, burst int, trustProxy bool) *RateLimiter {
	rl := &RateLimiter{
		visitors:   make(map[string]*visitor),
		rate:       rate.Limit(ratePerSecond),
		burst:      burst,
		trustProxy: trustProxy,
	}

	go rl.cleanupIdleVisitors()

	return rl
}

// Allow reports whether a request from the given IP should be admitted.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()

	return v.limiter.Allow()
}

// cleanupIdleVisitors drops limiters for IPs that have gone quiet.
func (rl *RateLimiter) cleanupIdleVisitors() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastSeen) > visitorIdleTimeout {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimitMiddleware applies rate limiting ahead of next. When no rate
// limiter is configured the middleware is a no-op.
func (h *Handler) RateLimitMiddleware(next http.Handler) http.Handler {
	if h.rateLimiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, h.rateLimiter.trustProxy)
		if !h.rateLimiter.Allow(ip) {
			w.Header().Set("Retry-After", "1")
			h.writeError(w, "rate_limit_exceeded",
				"Rate limit exceeded. Please try again later",
				http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client IP address from the request. Proxy headers are
// consulted only when trustProxy is set, since they are trivially spoofable
// otherwise.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// Take the first IP if the header lists several
			for i := 0; i < len(xff); i++ {
				if xff[i] == ',' {
					return xff[:i]
				}
			}
			return xff
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}

	// RemoteAddr is "IP:port"
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
