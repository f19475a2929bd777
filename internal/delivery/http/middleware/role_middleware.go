package middleware

import (
	"net/http"

	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/pkg/response"
)

// RequireRole creates a middleware that checks if the caller has any of the given roles.
// The principal is read from context (set by AuthMiddleware).
func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipalFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, role := range roles {
				if principal.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner is a convenience middleware for owner-only endpoints
func RequireOwner(next http.Handler) http.Handler {
	return RequireRole(entity.RoleOwner)(next)
}

// RequireVet is a convenience middleware for veterinarian-only endpoints
func RequireVet(next http.Handler) http.Handler {
	return RequireRole(entity.RoleVet)(next)
}

// RequirePrimary admits veterinarians with primary access only
func RequirePrimary(next http.Handler) http.Handler {
	return RequireVet(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := GetPrincipalFromContext(r.Context())
		if principal.AccessLevel != entity.AccessLevelPrimary {
			response.Forbidden(w, "You don't have permission to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	}))
}
