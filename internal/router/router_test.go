package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-analytics/internal/config"
	"github.com/stemsi/survey-analytics/internal/handler"
	"github.com/stemsi/survey-analytics/internal/ingest"
	"github.com/stemsi/survey-analytics/internal/service"
	"github.com/stretchr/testify/assert"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func testRouter(authRequired bool) *gin.Engine {
	cfg := &config.Config{GinMode: gin.TestMode, JWTSecret: "router-test", JWTExpiry: time.Hour, AuthRequired: authRequired}
	auth := service.NewAuthService(cfg, nil, nil)
	lookups := handler.NewLookupHandler(service.NewLookupService(nil))
	handlers := &Handlers{
		Auth:        handler.NewAuthHandler(auth),
		Students:    handler.NewStudentHandler(service.NewStudentService(nil, nil, nil, nil, zerolog.Nop())),
		Departments: lookups,
		Hobbies:     lookups,
		Analytics:   handler.NewAnalyticsHandler(service.NewAnalyticsService(nil)),
		System:      handler.NewSystemHandler(okPinger{}, ingest.NewReportStore(nil), authRequired, cfg.GinMode, zerolog.Nop()),
	}
	return SetupRouter(auth, handlers, nil, cfg, zerolog.Nop())
}

func TestWritesRequireTokenWhenAuthRequired(t *testing.T) {
	r := testRouter(true)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/students"},
		{http.MethodPatch, "/api/students/1"},
		{http.MethodDelete, "/api/departments/1"},
		{http.MethodPut, "/api/hobbies/1"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method+" "+tc.path)
	}
}

func TestReadsArePublic(t *testing.T) {
	r := testRouter(true)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// Invalid ids are rejected before any service call.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/students/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWritesOpenWithoutAuth(t *testing.T) {
	r := testRouter(false)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/students/xyz", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRoutesAreNotCached(t *testing.T) {
	r := testRouter(false)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
