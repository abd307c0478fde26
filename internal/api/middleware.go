package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ipLimiter rate-limits requests per client IP with one token bucket
// each. Buckets are never evicted; the shop's client base is small
// enough that the map stays bounded in practice.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	requests int
	per      time.Duration
}

func newIPLimiter(requests int, per time.Duration) *ipLimiter {
	if requests <= 0 {
		requests = 60
	}
	if per <= 0 {
		per = time.Minute
	}
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		requests: requests,
		per:      per,
	}
}

func (l *ipLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		l.mu.Lock()
		limiter, ok := l.limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Every(l.per/time.Duration(l.requests)), l.requests)
			l.limiters[ip] = limiter
		}
		l.mu.Unlock()

		if !limiter.Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with method, path, status and
// latency.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
