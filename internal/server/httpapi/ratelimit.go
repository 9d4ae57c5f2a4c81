package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// newIPLimiter allows perMinute requests per minute per IP. A non-positive
// perMinute returns nil, which allows everything.
func newIPLimiter(perMinute int) *ipLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

// Allow reports whether one more request from ip may proceed now.
func (l *ipLimiter) Allow(ip string) bool {
	if l == nil {
		return true
	}
	return l.get(ip).Allow()
}

// wrap wraps next so that requests over the per-IP budget get 429.
func (l *ipLimiter) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.retryAfter().Seconds())))
			writeFailure(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many attempts")
			return
		}
		next(w, r)
	}
}

func (l *ipLimiter) retryAfter() time.Duration {
	d := time.Duration(float64(time.Second) / float64(l.limit))
	if d < time.Second {
		d = time.Second
	}
	return d
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
