package handler

import (
	"context"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-analytics/internal/ingest"
	"github.com/stemsi/survey-analytics/internal/response"
	"github.com/stemsi/survey-analytics/internal/service"
)

const (
	serviceTitle = "Student Survey Analytics API"
	apiVersion   = "1.0"
	pingTimeout  = 2 * time.Second
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the API index and the health probe.
type SystemHandler struct {
	db           Pinger
	reports      *ingest.ReportStore
	authRequired bool
	ginMode      string
	log          zerolog.Logger
}

func NewSystemHandler(db Pinger, reports *ingest.ReportStore, authRequired bool, ginMode string, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		db:           db,
		reports:      reports,
		authRequired: authRequired,
		ginMode:      ginMode,
		log:          log.With().Str("component", "system_handler").Logger(),
	}
}

// Index godoc
// GET /
// Describes the service: versions, endpoint links, example queries and the
// report of the most recent bulk load.
func (h *SystemHandler) Index(c *gin.Context) {
	base := baseURL(c)
	endpoints := gin.H{
		"health": base + "/health",

		"login":  base + "/api/auth/login",
		"logout": base + "/api/auth/logout",

		"students":          base + "/api/students",
		"student_detail":    base + "/api/students/:id",
		"departments":       base + "/api/departments",
		"department_detail": base + "/api/departments/:id",
		"hobbies":           base + "/api/hobbies",
		"hobby_detail":      base + "/api/hobbies/:id",

		"students_search":       base + "/api/students/search",
		"departments_summary":   base + "/api/analytics/departments/summary",
		"parttime_impact":       base + "/api/analytics/parttime/impact",
		"studytime_performance": base + "/api/analytics/studytime/performance",
		"risk_list":             base + "/api/analytics/risk",
		"bmi_distribution":      base + "/api/analytics/bmi/distribution",
	}

	var lastLoad *ingest.Report
	if h.reports != nil {
		report, err := h.reports.Last(c.Request.Context())
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to read last load report")
		}
		lastLoad = report
	}

	response.Success(c, http.StatusOK, gin.H{
		"title":         serviceTitle,
		"api_version":   apiVersion,
		"go_version":    runtime.Version(),
		"gin_mode":      h.ginMode,
		"auth_required": h.authRequired,
		"pagination": gin.H{
			"page_size":     service.DefaultPageSize,
			"max_page_size": service.MaxPageSize,
		},
		"packages":  modules(),
		"endpoints": endpoints,
		"examples": gin.H{
			"list_students_page_1": base + "/api/students?page=1",
			"search_students":      base + "/api/students/search?department=1&gender=Male&min_college_mark=70&limit=10",
			"department_summary":   base + "/api/analytics/departments/summary",
			"risk_list":            base + "/api/analytics/risk?stress_level=Bad&max_college_mark=60&limit=20",
			"bmi_by_gender":        base + "/api/analytics/bmi/distribution?by=gender",
		},
		"last_load": lastLoad,
	})
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msg("Database ping failed")
		response.FailWithMessage(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable, "database unreachable")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"service":     serviceTitle,
		"api_version": apiVersion,
		"status":      "ok",
		"database":    "ok",
	})
}

func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}

// modules lists the dependencies compiled into the binary.
func modules() map[string]string {
	out := map[string]string{}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	for _, dep := range info.Deps {
		out[dep.Path] = dep.Version
	}
	return out
}
