package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/response"
	"github.com/stemsi/survey-analytics/internal/service"
)

// AnalyticsHandler serves the read-only search and aggregate endpoints.
// Unparsable query parameters are treated as absent, except ?by=.
type AnalyticsHandler struct {
	svc service.AnalyticsService
}

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Search godoc
// GET /api/students/search?department=&hobby=&gender=&part_time_job=&stress_level=&min_college_mark=&max_college_mark=&limit=
func (h *AnalyticsHandler) Search(c *gin.Context) {
	f := model.SearchFilter{
		DepartmentID:   queryInt(c, "department"),
		HobbyID:        queryInt(c, "hobby"),
		Gender:         queryString(c, "gender"),
		PartTimeJob:    queryBool(c, "part_time_job"),
		StressLevel:    queryString(c, "stress_level"),
		MinCollegeMark: queryFloat(c, "min_college_mark"),
		MaxCollegeMark: queryFloat(c, "max_college_mark"),
		Limit:          service.ClampLimit(queryInt(c, "limit"), service.SearchDefaultLimit, service.SearchMaxLimit),
	}

	out, err := h.svc.Search(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// DepartmentSummary godoc
// GET /api/analytics/departments/summary
func (h *AnalyticsHandler) DepartmentSummary(c *gin.Context) {
	out, err := h.svc.DepartmentSummaries(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// PartTimeImpact godoc
// GET /api/analytics/parttime/impact
func (h *AnalyticsHandler) PartTimeImpact(c *gin.Context) {
	out, err := h.svc.PartTimeImpact(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// StudyTimePerformance godoc
// GET /api/analytics/studytime/performance
func (h *AnalyticsHandler) StudyTimePerformance(c *gin.Context) {
	out, err := h.svc.StudyTimePerformance(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// Risk godoc
// GET /api/analytics/risk?stress_level=&max_college_mark=&limit=
func (h *AnalyticsHandler) Risk(c *gin.Context) {
	criteria := model.RiskCriteria{
		StressLevel:    service.RiskDefaultStress,
		MaxCollegeMark: service.RiskDefaultMaxMark,
		Limit:          service.ClampLimit(queryInt(c, "limit"), service.RiskDefaultLimit, service.RiskMaxLimit),
	}
	if s := queryString(c, "stress_level"); s != nil {
		criteria.StressLevel = *s
	}
	if m := queryFloat(c, "max_college_mark"); m != nil {
		criteria.MaxCollegeMark = *m
	}

	out, err := h.svc.Risk(c.Request.Context(), criteria)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// BMIDistribution godoc
// GET /api/analytics/bmi/distribution?by=gender|department
func (h *AnalyticsHandler) BMIDistribution(c *gin.Context) {
	out, err := h.svc.BMIDistribution(c.Request.Context(), c.Query("by"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func queryString(c *gin.Context, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}

func queryInt(c *gin.Context, key string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return nil
	}
	return &v
}

func queryFloat(c *gin.Context, key string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Query(key)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func queryBool(c *gin.Context, key string) *bool {
	v, ok := model.ParseFlag(c.Query(key))
	if !ok {
		return nil
	}
	return &v
}
