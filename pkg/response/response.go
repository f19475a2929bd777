package response

import (
	"errors"
	"net/http"
	"sync/atomic"

	"vetcare-backend/pkg/apperror"

	"github.com/goccy/go-json"
)

// exposeErrors controls whether the cause of an internal error is returned to clients.
var exposeErrors atomic.Bool

// SetExposeErrors enables error detail in responses; keep it off in production.
func SetExposeErrors(expose bool) {
	exposeErrors.Store(expose)
}

type ErrorBody struct {
	Message string      `json:"message"`
	Error   interface{} `json:"error,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// Success writes {"message": message, key: data}. An empty key omits the payload.
func Success(w http.ResponseWriter, statusCode int, message string, key string, data interface{}) {
	body := map[string]interface{}{"message": message}
	if key != "" {
		body[key] = data
	}
	JSON(w, statusCode, body)
}

func SuccessWithMeta(w http.ResponseWriter, statusCode int, message string, key string, data interface{}, meta *Meta) {
	body := map[string]interface{}{"message": message, "meta": meta}
	if key != "" {
		body[key] = data
	}
	JSON(w, statusCode, body)
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, ErrorBody{
		Message: message,
		Error:   err,
	})
}

// FromError translates err into the nearest taxonomy member and writes it.
func FromError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(err)
	}

	var detail interface{}
	if appErr.Kind == apperror.KindInternal {
		if exposeErrors.Load() && appErr.Err != nil {
			detail = appErr.Err.Error()
		}
	} else {
		detail = appErr.Kind.String()
	}

	Error(w, appErr.Kind.StatusCode(), appErr.Message, detail)
}

func ValidationError(w http.ResponseWriter, errors interface{}) {
	Error(w, http.StatusBadRequest, "Validation failed", errors)
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, http.StatusForbidden, message, nil)
}
