package middleware

import (
	"context"
	"net/http"
	"strings"

	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/apperror"
	"vetcare-backend/pkg/response"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
	TokenIDKey   contextKey = "token_id"
	RequestIDKey contextKey = "request_id"
)

type AuthMiddleware struct {
	resolver service.IdentityResolver
	metrics  *service.Metrics
}

func NewAuthMiddleware(resolver service.IdentityResolver, metrics *service.Metrics) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		metrics:  metrics,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.reject(w, "missing_header", "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(w, "malformed_header", "Invalid authorization header format")
			return
		}

		principal, claims, err := m.resolver.Resolve(r.Context(), parts[1])
		if err != nil {
			if apperror.KindOf(err) != apperror.KindInternal {
				m.failure(apperror.KindOf(err).String())
			}
			response.FromError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalKey, principal)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, reason, message string) {
	m.failure(reason)
	response.Unauthorized(w, message)
}

func (m *AuthMiddleware) failure(reason string) {
	if m.metrics != nil {
		m.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
}

// GetPrincipalFromContext extracts the authenticated caller from context
func GetPrincipalFromContext(ctx context.Context) (*entity.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(*entity.Principal)
	return principal, ok && principal != nil
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRequestIDFromContext extracts the request id set by RequestLogger
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
