package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/infrastructure/redis"
)

type RateLimiter interface {
	AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

// FixedWindowConfig defines one fixed-window rate limit.
type FixedWindowConfig struct {
	RouteKey string
	Limit    int
	Window   time.Duration
}

// RateLimitFixedWindow counts requests per identity (user ID when
// authenticated, client IP otherwise) per window. Limiter failures are
// fail-open so Redis outages never lock users out of sign-in.
func RateLimitFixedWindow(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.RouteKey == "" {
		cfg.RouteKey = "unknown"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			identity := userOrIP(r)
			bucket := windowBucket(time.Now(), cfg.Window)
			key := fmt.Sprintf("rl:%s:%s:%d", cfg.RouteKey, identity, bucket)

			dec, err := limiter.AllowFixedWindow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if !dec.Allowed {
				retry := dec.RetryAfter
				if retry <= 0 {
					retry = cfg.Window
				}
				writeErr(w, r, domain.WithMeta(domain.ErrRateLimited(cfg.RouteKey), map[string]string{
					"scope":               cfg.RouteKey,
					"retry_after_seconds": strconv.Itoa(int(retry.Seconds() + 0.5)),
				}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func windowBucket(now time.Time, window time.Duration) int64 {
	sec := int64(window.Seconds())
	if sec <= 0 {
		sec = 60
	}
	return now.Unix() / sec
}

// userOrIP prefers the authenticated user ID; otherwise the client IP.
func userOrIP(r *http.Request) string {
	if uid, ok := UserIDFromContext(r.Context()); ok && strings.TrimSpace(uid) != "" {
		return "u:" + uid
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For is trusted because the service sits behind our own
	// reverse proxy.
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		parts := strings.Split(xff, ",")
		ip := strings.TrimSpace(parts[0])
		if ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
