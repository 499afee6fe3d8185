// Package ratelimit provides a fixed-window request limiter backed by Redis.
// The window counter is shared across replicas, so the limit holds for the
// deployment as a whole rather than per process.
package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"modqueue/internal/platform/middleware"
)

// counterScript increments the window counter and sets its expiry on first
// use, atomically.
var counterScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return current
`)

// Middleware limits each client IP to requests per window. Redis being
// unreachable fails open: moderation must keep working when the limiter's
// backing store is down.
func Middleware(rdb *redis.Client, requests int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := "modqueue:ratelimit:" + clientIP(r) + ":" + strconv.FormatInt(time.Now().UnixMilli()/window.Milliseconds(), 10)

			current, err := counterScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64()
			if err != nil {
				logger.WarnContext(ctx, "rate limiter unavailable, failing open",
					"request_id", middleware.GetRequestID(ctx),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			if current > int64(requests) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited","error_description":"too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
