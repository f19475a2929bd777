package handler

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"vetcare-backend/internal/delivery/http/middleware"
	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/pkg/response"
	"vetcare-backend/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// decodeAndValidate writes the error response itself and reports whether the
// handler may continue. An empty body is accepted when optional is set.
// The body is read before decoding since the json stream decoder hides reader errors.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}, optional bool) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
			return false
		}
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if !optional || len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return false
		}
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func currentPrincipal(w http.ResponseWriter, r *http.Request) (*entity.Principal, bool) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return nil, false
	}
	return principal, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func queryFloat(r *http.Request, key string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

func pageMeta(page, limit int, total int64) *response.Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return &response.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
