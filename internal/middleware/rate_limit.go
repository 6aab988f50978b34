package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/motofleet/admin-api/internal/auth"
	pkghttp "github.com/motofleet/admin-api/pkg/http"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

func limitExceeded(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteError(w, http.StatusTooManyRequests, pkghttp.CodeRateLimited, "Rate limit exceeded")
}

// RateLimitByUserID rate limits by the authenticated principal, so one
// admin hammering the endpoint cannot exhaust another's budget. Falls
// back to the client IP for requests without claims.
func RateLimitByUserID(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if claims := auth.GetUserFromContext(r); claims != nil && claims.UserID != "" {
				return claims.UserID, nil
			}
			return httprate.KeyByRealIP(r)
		}),
		httprate.WithLimitHandler(limitExceeded),
	)
}
