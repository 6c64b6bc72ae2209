package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cswatch/catalog/pkg/logger"
)

const (
	// clientTTL is how long an idle client keeps its bucket.
	clientTTL = 3 * time.Minute
	// sweepInterval bounds how often the idle sweep runs.
	sweepInterval = time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client-IP token bucket to the HTTP surface.
// Buckets for clients idle longer than clientTTL are swept so the map does
// not grow without bound.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
	log       *logger.Logger
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with the given
// burst per client.
func NewRateLimiter(requestsPerSecond, burst int, log *logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.NewDefault("ratelimit")
	}
	return &RateLimiter{
		clients:   make(map[string]*client),
		rate:      rate.Limit(requestsPerSecond),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
		log:       log,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= sweepInterval {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) >= clientTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Middleware rejects over-limit clients with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !rl.limiter(host).Allow() {
			rl.log.WithField("client", host).Debug("rate limit exceeded")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded","code":"rate_limited"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
