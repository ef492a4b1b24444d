package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"studiobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 2 * time.Hour

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP. Buckets that have not
// been used for a while are dropped on the next lookup sweep.
type RateLimiter struct {
	name      string
	every     time.Duration
	burst     int
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
	log       logrus.FieldLogger
}

// NewRateLimiter allows limit requests per window for each IP, all of which
// may arrive as a burst.
func NewRateLimiter(name string, limit int, window time.Duration, log logrus.FieldLogger) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &RateLimiter{
		name:     name,
		every:    window / time.Duration(limit),
		burst:    limit,
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
		log:      log,
	}
}

func (l *RateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for key, e := range l.limiters {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.get(ip).Allow() {
			l.log.WithFields(logrus.Fields{"ip": ip, "limiter": l.name}).Warn("rate limit exceeded")
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(l.every.Seconds()))))
			response.Abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded. Try again later.")
			return
		}
		c.Next()
	}
}
