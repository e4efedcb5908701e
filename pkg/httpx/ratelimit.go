package httpx

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/404talk/webapp/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines a token-bucket rate limit profile.
type RateLimitConfig struct {
	// RequestsPerWindow is the sustained number of requests allowed per Window.
	RequestsPerWindow int
	// Window is the time window the sustained rate is expressed over.
	Window time.Duration
	// Burst is the bucket capacity available immediately.
	Burst int
}

// Profiles for the BFF surface. Overridable via RATELIMIT_<NAME>_REQUESTS,
// RATELIMIT_<NAME>_WINDOW_SEC and RATELIMIT_<NAME>_BURST.
var (
	// StrictLimit guards credential-accepting endpoints (login, register).
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit covers token maintenance endpoints (refresh, logout).
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit covers health and other low-sensitivity endpoints.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
)

func init() {
	StrictLimit = parseLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = parseLimitFromEnv("MODERATE", ModerateLimit)
	LenientLimit = parseLimitFromEnv("LENIENT", LenientLimit)
}

func parseLimitFromEnv(name string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	if v, err := strconv.Atoi(os.Getenv("RATELIMIT_" + name + "_REQUESTS")); err == nil && v > 0 {
		cfg.RequestsPerWindow = v
	}
	if v, err := strconv.Atoi(os.Getenv("RATELIMIT_" + name + "_WINDOW_SEC")); err == nil && v > 0 {
		cfg.Window = time.Duration(v) * time.Second
	}
	if v, err := strconv.Atoi(os.Getenv("RATELIMIT_" + name + "_BURST")); err == nil && v > 0 {
		cfg.Burst = v
	}
	return cfg
}

// KeyExtractor derives the bucket key for a request. An empty key skips
// limiting for that request.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor keys buckets by client IP, preferring X-Forwarded-For when
// the service sits behind a proxy.
func IPKeyExtractor(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// limiterPool lazily creates one rate.Limiter per key and evicts idle ones so
// short-lived clients don't accumulate forever.
type limiterPool struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (p *limiterPool) get(key string) *rate.Limiter {
	if l, ok := p.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	l, _ := p.limiters.LoadOrStore(key, rate.NewLimiter(p.rate, p.burst))
	p.maybeCleanup()
	return l.(*rate.Limiter)
}

func (p *limiterPool) maybeCleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.lastCleanup) < 5*time.Minute {
		return
	}
	p.lastCleanup = time.Now()

	// A full bucket means the key has been idle for at least one window.
	p.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(p.burst) {
			p.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit returns a middleware enforcing cfg per key.
func RateLimit(cfg RateLimitConfig, extract KeyExtractor) Middleware {
	pool := &limiterPool{
		rate:        rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := extract(r)
			if key == "" {
				log.Warn("rate limit: no key extracted, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := pool.get(key)
			if !limiter.Allow() {
				res := limiter.Reserve()
				delay := res.Delay()
				res.Cancel()

				retryAfter := max(int(delay.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", cfg.Window.String())

				log.Warn("rate limit exceeded", "key", key, "retry_after", retryAfter)

				WriteJSON(w, http.StatusTooManyRequests, map[string]any{
					"success": false,
					"message": fmt.Sprintf("Too many requests. Retry in %ds.", retryAfter),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP enforces cfg per client IP.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, IPKeyExtractor)
}
