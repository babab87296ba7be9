package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/repository"
)

// Limits for the analytics list endpoints.
const (
	SearchDefaultLimit = 50
	SearchMaxLimit     = 500
	RiskDefaultLimit   = 20
	RiskMaxLimit       = 200

	RiskDefaultStress  = string(model.StressBad)
	RiskDefaultMaxMark = 60.0
)

// AnalyticsService shapes the aggregate queries into response bodies and
// rounds every average to two decimals.
type AnalyticsService interface {
	Search(ctx context.Context, f model.SearchFilter) (*model.SearchResult, error)
	DepartmentSummaries(ctx context.Context) (*model.Listing[model.DepartmentSummary], error)
	PartTimeImpact(ctx context.Context) (*model.PartTimeImpact, error)
	StudyTimePerformance(ctx context.Context) (*model.Listing[model.StudyTimePerformance], error)
	Risk(ctx context.Context, c model.RiskCriteria) (*model.RiskResult, error)
	BMIDistribution(ctx context.Context, by string) (*model.BMIDistribution, error)
}

type analyticsService struct {
	repo repository.AnalyticsRepository
}

func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

// ClampLimit returns def for nil, otherwise v bounded to [1, upper].
func ClampLimit(v *int, def, upper int) int {
	if v == nil {
		return def
	}
	return min(max(*v, 1), upper)
}

func (s *analyticsService) Search(ctx context.Context, f model.SearchFilter) (*model.SearchResult, error) {
	rows, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	return &model.SearchResult{Filters: f, Count: len(rows), Results: rows}, nil
}

func (s *analyticsService) DepartmentSummaries(ctx context.Context) (*model.Listing[model.DepartmentSummary], error) {
	rows, err := s.repo.DepartmentSummaries(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].AvgCollegeMark = round2(rows[i].AvgCollegeMark)
		rows[i].AvgSalaryExpectation = round2(rows[i].AvgSalaryExpectation)
	}
	return &model.Listing[model.DepartmentSummary]{Count: len(rows), Results: rows}, nil
}

func (s *analyticsService) PartTimeImpact(ctx context.Context) (*model.PartTimeImpact, error) {
	impact, err := s.repo.PartTimeImpact(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range []*model.PartTimeGroup{&impact.WithPartTimeJob, &impact.WithoutPartTimeJob} {
		g.AvgCollegeMark = round2(g.AvgCollegeMark)
		g.AvgSalaryExpectation = round2(g.AvgSalaryExpectation)
		g.AvgWillingnessPercent = round2(g.AvgWillingnessPercent)
	}
	return impact, nil
}

// StudyTimePerformance orders buckets from shortest to longest study time.
func (s *analyticsService) StudyTimePerformance(ctx context.Context) (*model.Listing[model.StudyTimePerformance], error) {
	rows, err := s.repo.StudyTimePerformance(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i].DailyStudyingTime.Rank(), rows[j].DailyStudyingTime.Rank()
		if ri != rj {
			return ri < rj
		}
		return rows[i].DailyStudyingTime < rows[j].DailyStudyingTime
	})
	for i := range rows {
		rows[i].AvgCollegeMark = round2(rows[i].AvgCollegeMark)
		rows[i].AvgWillingnessPercent = round2(rows[i].AvgWillingnessPercent)
	}
	return &model.Listing[model.StudyTimePerformance]{Count: len(rows), Results: rows}, nil
}

func (s *analyticsService) Risk(ctx context.Context, c model.RiskCriteria) (*model.RiskResult, error) {
	if c.StressLevel == "" {
		c.StressLevel = RiskDefaultStress
	}
	rows, err := s.repo.Risk(ctx, c)
	if err != nil {
		return nil, err
	}
	return &model.RiskResult{Criteria: c, Count: len(rows), Results: rows}, nil
}

// BMIDistribution accepts "", "gender" or "department" (case-insensitive).
func (s *analyticsService) BMIDistribution(ctx context.Context, by string) (*model.BMIDistribution, error) {
	by = strings.ToLower(strings.TrimSpace(by))
	switch by {
	case model.BMIGroupNone, model.BMIGroupGender, model.BMIGroupDepartment:
	default:
		return nil, ErrInvalidGrouping
	}

	groups, err := s.repo.BMIDistribution(ctx, by)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].AvgBMI = round2(groups[i].AvgBMI)
	}

	out := &model.BMIDistribution{Count: len(groups), Results: groups}
	if by != model.BMIGroupNone {
		out.GroupBy = &by
	}
	return out, nil
}

// round2 rounds half away from zero to two decimals; nil stays nil.
func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}
