package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

type CORSMiddleware struct {
	handler func(http.Handler) http.Handler
}

// NewCORSMiddleware allows every origin when allowedOrigins is empty.
func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &CORSMiddleware{
		handler: cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	}
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return m.handler(next)
}
