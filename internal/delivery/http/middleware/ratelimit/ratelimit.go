// Package ratelimit provides a per-client token-bucket limiter for the
// HTTP surface, mainly to keep the Jellyfin proxy from being used as an
// open relay.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	http_common "github.com/jellypick/core/internal/delivery/http/common"
	"golang.org/x/time/rate"
)

type Config struct {
	Rate            rate.Limit
	Burst           int
	CleanupInterval time.Duration
	IdleTTL         time.Duration
}

func DefaultConfig() Config {
	return Config{
		Rate:            rate.Limit(120.0 / 60.0), // 120 req/min per client
		Burst:           60,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         10 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter keeps one token bucket per client IP and evicts idle entries in
// the background.
type Limiter struct {
	config Config

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

func New(config Config) *Limiter {
	l := &Limiter{
		config:   config,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *Limiter) Stop() {
	close(l.stopCh)
}

// Middleware rejects clients that exhausted their bucket with 429.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !l.Allow(ctx.ClientIP()) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, http_common.ErrorResponse{
				Message: "rate limit exceeded",
			})
			return
		}
		ctx.Next()
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[key]
	if !ok {
		entry = &clientLimiter{
			limiter: rate.NewLimiter(l.config.Rate, l.config.Burst),
		}
		l.limiters[key] = entry
	}
	entry.lastAccess = time.Now()
	return entry.limiter.Allow()
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.config.IdleTTL)
	for key, entry := range l.limiters {
		if entry.lastAccess.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}
