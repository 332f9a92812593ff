// internal/common/middleware/ratelimit.go
// Redis-backed fixed-window rate limiting for credential endpoints

package middleware

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/stvnptra/picshare/internal/common/utils"
)

// RateLimiter limits requests per client IP within a fixed window
type RateLimiter struct {
	redis  *redis.Client
	max    int
	window time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redisClient *redis.Client, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		max:    max,
		window: window,
	}
}

// Limit wraps a handler, rejecting clients that exceed the window quota
// with 429. Redis failures fail open: limiting is protection, not a
// correctness requirement.
func (rl *RateLimiter) Limit(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ratelimit:%s:%s", name, clientIP(r))

		count, err := rl.redis.Incr(r.Context(), key).Result()
		if err != nil {
			log.Printf("rate limiter unavailable, allowing request: %v", err)
			next(w, r)
			return
		}

		if count == 1 {
			rl.redis.Expire(r.Context(), key, rl.window)
		}

		if count > int64(rl.max) {
			utils.ErrorResponse(w, "Too many attempts, please try again later", http.StatusTooManyRequests)
			return
		}

		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	// Behind a proxy the first X-Forwarded-For entry is the client
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
