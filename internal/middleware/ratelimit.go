package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/guttosm/tradelens/internal/logger"
)

// Default limits: a steady request per second per client IP, bursts of 60,
// and clients idle for three minutes are forgotten.
const (
	defaultRate  = rate.Limit(1)
	defaultBurst = 60
	defaultIdle  = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore holds one token bucket per client IP. Idle entries are swept
// at most once per idle interval, so the map is bounded by the number of
// clients seen in the last two intervals.
type limiterStore struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rate      rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

func newLimiterStore(r rate.Limit, burst int, idle time.Duration) *limiterStore {
	return &limiterStore{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    burst,
		idle:     idle,
	}
}

// allow reports whether ip may proceed at now.
func (s *limiterStore) allow(ip string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= s.idle {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > s.idle {
				delete(s.visitors, k)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.rate, s.burst)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// retryAfter is the wait, in whole seconds, for one token to refill.
func (s *limiterStore) retryAfter() int {
	if s.rate <= 0 {
		return int(s.idle.Seconds())
	}
	return int(math.Max(1, math.Ceil(1/float64(s.rate))))
}

// RateLimiter limits each client IP with the default token bucket.
//
// Response when the bucket is empty:
//
//	HTTP/1.1 429 Too Many Requests
//	Retry-After: 1
//	{"message": "rate limit exceeded", "timestamp": "..."}
func RateLimiter() gin.HandlerFunc {
	return NewRateLimiter(defaultRate, defaultBurst, defaultIdle)
}

// NewRateLimiter is RateLimiter with explicit limits.
func NewRateLimiter(r rate.Limit, burst int, idle time.Duration) gin.HandlerFunc {
	store := newLimiterStore(r, burst, idle)
	return func(c *gin.Context) {
		if store.allow(c.ClientIP(), time.Now()) {
			c.Next()
			return
		}
		annotate(logger.Component("http").Warn(), c).
			Str("client_ip", c.ClientIP()).
			Msg("rate limit exceeded")
		c.Header("Retry-After", strconv.Itoa(store.retryAfter()))
		AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
	}
}
