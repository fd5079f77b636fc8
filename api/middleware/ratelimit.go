package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

// FixedWindowLimiter applies a counter-based rate limit. pkg/redis.Client
// satisfies it.
type FixedWindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit guards the write surface with a fixed window per client address.
// Reads pass through untouched.
func RateLimit(limiter FixedWindowLimiter, cfg config.RateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || limiter == nil || r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			scope := r.RemoteAddr + "|" + r.Method
			allowed, _, err := limiter.FixedWindowAllow(r.Context(), scope, int64(cfg.Requests), cfg.Window)
			if err != nil {
				// limiter outage must not take the API down
				if logg != nil {
					logg.Warn(r.Context(), "rate limiter unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
