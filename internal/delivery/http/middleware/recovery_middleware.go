package middleware

import (
	"net/http"
	"runtime/debug"

	"vetcare-backend/pkg/response"

	"github.com/sirupsen/logrus"
)

// Recovery turns a panic into a 500 JSON response.
func Recovery(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithFields(logrus.Fields{
						"request_id": GetRequestIDFromContext(r.Context()),
						"panic":      rec,
						"stack":      string(debug.Stack()),
					}).Error("Recovered from panic")
					response.InternalServerError(w, "")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
