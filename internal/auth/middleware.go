package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/motofleet/admin-api/internal/models"
	pkghttp "github.com/motofleet/admin-api/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing user claims in context
	UserContextKey contextKey = "user"
)

// RoleAuthority is the single predicate deciding role membership. It is
// consulted on every request; results are never cached.
type RoleAuthority interface {
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
}

// Authenticate validates the bearer token and injects claims into
// context. The Authorization header is checked before any body read.
func Authenticate(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				pkghttp.WriteUnauthorized(w, pkghttp.CodeAuthMissing, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				pkghttp.WriteUnauthorized(w, pkghttp.CodeAuthMissing, "Invalid authorization header format")
				return
			}

			claims, err := tm.ValidateToken(parts[1])
			if err != nil {
				pkghttp.WriteUnauthorized(w, pkghttp.CodeAuthInvalid, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole enforces a database-backed role check. A failure to run
// the check is a hard 500, never silently treated as "not an admin" —
// and never as "is an admin" either.
func RequireRole(authority RoleAuthority, role string, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r)
			if claims == nil {
				pkghttp.WriteUnauthorized(w, pkghttp.CodeAuthMissing, "Missing authentication")
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				pkghttp.WriteUnauthorized(w, pkghttp.CodeAuthInvalid, "Invalid subject in token")
				return
			}

			hasRole, err := authority.HasRole(r.Context(), userID, role)
			if err != nil {
				logger.Error("role check failed",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("role", role),
					slog.Any("error", err),
				)
				pkghttp.WriteInternalError(w, pkghttp.CodeRoleCheckFailed, "Unable to verify permissions")
				return
			}

			if !hasRole {
				// Generic message: do not leak whether the target resource exists
				pkghttp.WriteForbidden(w, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(r *http.Request) *models.TokenClaims {
	claims, ok := r.Context().Value(UserContextKey).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
