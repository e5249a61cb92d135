package httpmiddleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig configures the per-client token bucket limiter.
type RateLimitConfig struct {
	// Burst is the bucket capacity: the number of requests a client may
	// issue back to back before refills start to matter.
	Burst int

	// RefillEvery is the interval at which one token is returned to the
	// bucket. One request per RefillEvery is the sustained rate.
	RefillEvery time.Duration

	// KeyFunc derives the bucket key from a request. Defaults to the client
	// IP, honouring X-Forwarded-For.
	KeyFunc func(*http.Request) string
}

// bucket is one client's token state. Tokens are refilled lazily on access,
// so idle clients cost nothing between requests.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

type limiter struct {
	cfg RateLimitConfig

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// take consumes a token for key if one is available at time now. It reports
// the tokens left and whether the request may proceed.
func (l *limiter) take(key string, now time.Time) (left int, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Full buckets are indistinguishable from absent ones, so drop them
	// once per full refill period to bound the map.
	fullRefill := time.Duration(l.cfg.Burst) * l.cfg.RefillEvery
	if now.Sub(l.lastSweep) >= fullRefill {
		l.lastSweep = now
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) >= fullRefill {
				delete(l.buckets, k)
			}
		}
	}

	b, found := l.buckets[key]
	if !found {
		b = &bucket{tokens: float64(l.cfg.Burst), lastSeen: now}
		l.buckets[key] = b
	} else {
		b.tokens += now.Sub(b.lastSeen).Seconds() / l.cfg.RefillEvery.Seconds()
		if b.tokens > float64(l.cfg.Burst) {
			b.tokens = float64(l.cfg.Burst)
		}
		b.lastSeen = now
	}

	if b.tokens < 1 {
		return 0, false
	}
	b.tokens--
	return int(b.tokens), true
}

// RateLimit enforces a token bucket limit per client. Rejected requests get
// 429 with a Retry-After hint; every response carries the limit headers.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	l := &limiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			left, ok := l.take(cfg.KeyFunc(r), time.Now())
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(left))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.RefillEvery.Seconds()+1)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP picks the client address off the request, preferring the first
// X-Forwarded-For hop over the socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
