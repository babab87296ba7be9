package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-analytics/internal/ingest"
	"github.com/stemsi/survey-analytics/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func systemRouter(db Pinger) *gin.Engine {
	h := NewSystemHandler(db, ingest.NewReportStore(nil), false, gin.TestMode, zerolog.Nop())
	r := gin.New()
	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	return r
}

func TestHealth(t *testing.T) {
	w, env := do(t, systemRouter(fakePinger{}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"database":"ok"`)

	w, env = do(t, systemRouter(fakePinger{err: errors.New("refused")}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, response.ErrServiceUnavailable, env.Error.Code)
}

func TestIndexDescribesService(t *testing.T) {
	w, env := do(t, systemRouter(fakePinger{}), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		APIVersion string            `json:"api_version"`
		GoVersion  string            `json:"go_version"`
		Endpoints  map[string]string `json:"endpoints"`
		Pagination map[string]int    `json:"pagination"`
		LastLoad   *ingest.Report    `json:"last_load"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, apiVersion, body.APIVersion)
	assert.Equal(t, runtime.Version(), body.GoVersion)
	assert.Equal(t, "http://example.com/api/analytics/risk", body.Endpoints["risk_list"])
	assert.Equal(t, 20, body.Pagination["page_size"])
	assert.Nil(t, body.LastLoad)
}
