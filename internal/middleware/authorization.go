package middleware

import (
	"net/http"
	"slices"

	"bakery-api/internal/domain"

	"go.uber.org/zap"
)

func forbidden(w http.ResponseWriter) {
	RespondWithError(w, http.StatusForbidden, CodeForbidden, "insufficient permissions")
}

// RequireAdmin middleware ensures the user has admin role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole([]string{domain.RoleAdmin}, logger)
}

// RequireRole middleware ensures the user has one of the specified roles.
// It must run after AuthMiddleware.
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				forbidden(w)
				return
			}

			if !slices.Contains(allowedRoles, role) {
				logger.Warn("User role not authorized",
					zap.String("role", role),
					zap.Strings("allowed_roles", allowedRoles),
				)
				forbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
