package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vetcare-backend/internal/domain/entity"
	"vetcare-backend/internal/service"
	"vetcare-backend/pkg/jwt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	principal *entity.Principal
	err       error
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (*entity.Principal, *jwt.Claims, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.principal, &jwt.Claims{TokenID: "token-" + token}, nil
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestAuthenticate(t *testing.T) {
	owner := &entity.Principal{ID: uuid.New(), Role: entity.RoleOwner}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := GetPrincipalFromContext(r.Context())
		require.True(t, ok)
		tokenID, _ := GetTokenIDFromContext(r.Context())
		w.Write([]byte(principal.ID.String() + " " + tokenID))
	})

	tests := []struct {
		name   string
		header string
		err    error
		status int
		reason string
	}{
		{name: "valid token", header: "Bearer abc", status: http.StatusOK},
		{name: "missing header", status: http.StatusUnauthorized, reason: "missing_header"},
		{name: "malformed header", header: "Token abc", status: http.StatusUnauthorized, reason: "malformed_header"},
		{name: "revoked token", header: "Bearer abc", err: service.ErrTokenRevoked, status: http.StatusUnauthorized, reason: "unauthenticated"},
		{name: "inactive account", header: "Bearer abc", err: service.ErrAccountInactive, status: http.StatusForbidden, reason: "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := service.NewMetrics(prometheus.NewRegistry())
			m := NewAuthMiddleware(&stubResolver{principal: owner, err: tt.err}, metrics)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			m.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, owner.ID.String()+" token-abc", rec.Body.String())
				return
			}
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AuthFailures.WithLabelValues(tt.reason)))
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	serve := func(h http.Handler, principal *entity.Principal) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if principal != nil {
			req = req.WithContext(context.WithValue(req.Context(), PrincipalKey, principal))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	owner := &entity.Principal{ID: uuid.New(), Role: entity.RoleOwner}
	vet := &entity.Principal{ID: uuid.New(), Role: entity.RoleVet, AccessLevel: entity.AccessLevelFullAccess}
	primary := &entity.Principal{ID: uuid.New(), Role: entity.RoleVet, AccessLevel: entity.AccessLevelPrimary}

	assert.Equal(t, http.StatusUnauthorized, serve(RequireOwner(ok), nil))
	assert.Equal(t, http.StatusNoContent, serve(RequireOwner(ok), owner))
	assert.Equal(t, http.StatusForbidden, serve(RequireOwner(ok), vet))
	assert.Equal(t, http.StatusForbidden, serve(RequireVet(ok), owner))
	assert.Equal(t, http.StatusNoContent, serve(RequireVet(ok), vet))
	assert.Equal(t, http.StatusForbidden, serve(RequirePrimary(ok), vet))
	assert.Equal(t, http.StatusForbidden, serve(RequirePrimary(ok), owner))
	assert.Equal(t, http.StatusNoContent, serve(RequirePrimary(ok), primary))
}

func TestRecoveryReturnsJSON(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := Recovery(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeMessage(t, rec))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	var seen string
	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pets", nil))

		id := rec.Header().Get("X-Request-ID")
		require.NotEmpty(t, id)
		assert.Equal(t, id, seen)
		entry := hook.LastEntry()
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, http.StatusNotFound, entry.Data["status"])
		assert.Equal(t, "/pets", entry.Data["path"])
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/pets", nil)
		req.Header.Set("X-Request-ID", "req-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-42", seen)
	})
}

func TestLoginRateLimit(t *testing.T) {
	h := LoginRateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{}"))
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	disabled := LoginRateLimit(0, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	metrics := service.NewMetrics(prometheus.NewRegistry())
	router := mux.NewRouter()
	router.Use(Metrics(metrics))
	router.HandleFunc("/pets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}).Methods(http.MethodGet)

	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pets/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/pets/{id}", "202")))
}

func TestCORSPreflight(t *testing.T) {
	h := NewCORSMiddleware([]string{"https://app.example.com"}).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/pets", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEqual(t, http.StatusTeapot, rec.Code)
}
