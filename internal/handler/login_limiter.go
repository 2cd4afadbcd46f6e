package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postadmin/internal/auth"
	"golang.org/x/time/rate"
)

const (
	// MessageTooManyAttempts is shown when a client exceeds the login rate.
	MessageTooManyAttempts = "Too many login attempts, please try again later"

	limiterIdleTTL   = 15 * time.Minute
	limiterSweepSize = 1024
)

// LoginLimiter 按客户端 IP 做令牌桶限流，只作用于登录提交。
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter allows perSecond requests per client with the given burst.
// A non-positive rate disables limiting.
func NewLoginLimiter(perSecond float64, burst int) *LoginLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &LoginLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    limit,
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether the client identified by key may attempt a login now.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.limiters) >= limiterSweepSize {
		for k, entry := range l.limiters {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(l.limiters, k)
			}
		}
	}

	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// LoginThrottle rejects login submissions over the per-IP rate.
func (a *API) LoginThrottle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		a.renderHTML(c, http.StatusTooManyRequests, "login.html", gin.H{
			"title":    "Admin Login",
			"error":    MessageTooManyAttempts,
			"redirect": auth.SafeRedirect(c.PostForm("redirect")),
			"email":    c.PostForm("email"),
		})
		c.Abort()
	}
}
