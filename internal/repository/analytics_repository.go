package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/model"
)

// AnalyticsRepository runs the read-only aggregate queries. Averages come
// back unrounded; nil means there was nothing to average.
type AnalyticsRepository interface {
	Search(ctx context.Context, f model.SearchFilter) ([]model.SearchRow, error)
	DepartmentSummaries(ctx context.Context) ([]model.DepartmentSummary, error)
	PartTimeImpact(ctx context.Context) (*model.PartTimeImpact, error)
	StudyTimePerformance(ctx context.Context) ([]model.StudyTimePerformance, error)
	Risk(ctx context.Context, c model.RiskCriteria) ([]model.RiskRow, error)
	BMIDistribution(ctx context.Context, groupBy string) ([]model.BMIGroup, error)
}

type analyticsRepository struct {
	db database.DBTX
	sb squirrel.StatementBuilderType
}

func NewAnalyticsRepository(db database.DBTX) AnalyticsRepository {
	return &analyticsRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *analyticsRepository) studentsWithRefs(columns ...string) squirrel.SelectBuilder {
	return r.sb.Select(columns...).
		From("students s").
		Join("departments d ON d.id = s.department_id").
		Join("hobbies h ON h.id = s.hobby_id").
		LeftJoin("student_metrics m ON m.student_id = s.id")
}

func (r *analyticsRepository) Search(ctx context.Context, f model.SearchFilter) ([]model.SearchRow, error) {
	q := r.studentsWithRefs(
		"s.id", "s.gender", "d.name", "h.name", "s.height_cm", "s.weight_kg",
		"m.college_mark", "m.stress_level", "m.part_time_job", "m.salary_expectation",
		"m.daily_studying_time", "m.willingness_percent",
	)
	if f.DepartmentID != nil {
		q = q.Where(squirrel.Eq{"s.department_id": *f.DepartmentID})
	}
	if f.HobbyID != nil {
		q = q.Where(squirrel.Eq{"s.hobby_id": *f.HobbyID})
	}
	if f.Gender != nil {
		q = q.Where("lower(s.gender) = lower(?)", *f.Gender)
	}
	if f.PartTimeJob != nil {
		q = q.Where(squirrel.Eq{"m.part_time_job": *f.PartTimeJob})
	}
	if f.StressLevel != nil {
		q = q.Where(squirrel.Eq{"m.stress_level": *f.StressLevel})
	}
	if f.MinCollegeMark != nil {
		q = q.Where(squirrel.GtOrEq{"m.college_mark": *f.MinCollegeMark})
	}
	if f.MaxCollegeMark != nil {
		q = q.Where(squirrel.LtOrEq{"m.college_mark": *f.MaxCollegeMark})
	}

	query, args, err := q.OrderBy("s.id ASC").Limit(uint64(f.Limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	defer rows.Close()

	results := []model.SearchRow{}
	for rows.Next() {
		var s model.SearchRow
		if err := rows.Scan(
			&s.ID, &s.Gender, &s.Department, &s.Hobby, &s.HeightCM, &s.WeightKG,
			&s.CollegeMark, &s.StressLevel, &s.PartTimeJob, &s.SalaryExpectation,
			&s.DailyStudyingTime, &s.WillingnessPercent,
		); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// DepartmentSummaries includes departments without students. The Fair
// column counts a label no canonical stress level uses and stays zero.
func (r *analyticsRepository) DepartmentSummaries(ctx context.Context) ([]model.DepartmentSummary, error) {
	query := `
		SELECT d.id, d.name,
		       COUNT(DISTINCT s.id),
		       AVG(m.college_mark),
		       AVG(m.salary_expectation)::float8,
		       COUNT(DISTINCT s.id) FILTER (WHERE m.stress_level = 'Good'),
		       COUNT(DISTINCT s.id) FILTER (WHERE m.stress_level = 'Fair'),
		       COUNT(DISTINCT s.id) FILTER (WHERE m.stress_level = 'Bad')
		FROM departments d
		LEFT JOIN students s ON s.department_id = d.id
		LEFT JOIN student_metrics m ON m.student_id = s.id
		GROUP BY d.id, d.name
		ORDER BY d.name ASC, d.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("department summaries: %w", err)
	}
	defer rows.Close()

	results := []model.DepartmentSummary{}
	for rows.Next() {
		var d model.DepartmentSummary
		if err := rows.Scan(
			&d.DepartmentID, &d.DepartmentName, &d.StudentCount,
			&d.AvgCollegeMark, &d.AvgSalaryExpectation,
			&d.StressDistribution.Good, &d.StressDistribution.Fair, &d.StressDistribution.Bad,
		); err != nil {
			return nil, fmt.Errorf("scan department summary: %w", err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

func (r *analyticsRepository) PartTimeImpact(ctx context.Context) (*model.PartTimeImpact, error) {
	query := `
		SELECT m.part_time_job, COUNT(*),
		       AVG(m.college_mark),
		       AVG(m.salary_expectation)::float8,
		       AVG(m.willingness_percent)::float8
		FROM students s
		JOIN student_metrics m ON m.student_id = s.id
		GROUP BY m.part_time_job
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("part-time impact: %w", err)
	}
	defer rows.Close()

	impact := &model.PartTimeImpact{}
	for rows.Next() {
		var partTime bool
		var g model.PartTimeGroup
		if err := rows.Scan(&partTime, &g.StudentCount, &g.AvgCollegeMark, &g.AvgSalaryExpectation, &g.AvgWillingnessPercent); err != nil {
			return nil, fmt.Errorf("scan part-time group: %w", err)
		}
		if partTime {
			impact.WithPartTimeJob = g
		} else {
			impact.WithoutPartTimeJob = g
		}
	}
	return impact, rows.Err()
}

func (r *analyticsRepository) StudyTimePerformance(ctx context.Context) ([]model.StudyTimePerformance, error) {
	query := `
		SELECT m.daily_studying_time, COUNT(*),
		       AVG(m.college_mark),
		       AVG(m.willingness_percent)::float8
		FROM students s
		JOIN student_metrics m ON m.student_id = s.id
		GROUP BY m.daily_studying_time
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("study time performance: %w", err)
	}
	defer rows.Close()

	results := []model.StudyTimePerformance{}
	for rows.Next() {
		var p model.StudyTimePerformance
		if err := rows.Scan(&p.DailyStudyingTime, &p.StudentCount, &p.AvgCollegeMark, &p.AvgWillingnessPercent); err != nil {
			return nil, fmt.Errorf("scan study time row: %w", err)
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

func (r *analyticsRepository) Risk(ctx context.Context, c model.RiskCriteria) ([]model.RiskRow, error) {
	query, args, err := r.studentsWithRefs(
		"s.id", "s.gender", "d.name", "h.name", "m.college_mark", "m.stress_level", "m.part_time_job",
	).
		Where(squirrel.Eq{"m.stress_level": c.StressLevel}).
		Where(squirrel.LtOrEq{"m.college_mark": c.MaxCollegeMark}).
		OrderBy("m.college_mark ASC NULLS LAST", "s.id ASC").
		Limit(uint64(c.Limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build risk query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("risk list: %w", err)
	}
	defer rows.Close()

	results := []model.RiskRow{}
	for rows.Next() {
		var row model.RiskRow
		if err := rows.Scan(&row.ID, &row.Gender, &row.Department, &row.Hobby,
			&row.CollegeMark, &row.StressLevel, &row.PartTimeJob); err != nil {
			return nil, fmt.Errorf("scan risk row: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// bmiExpr yields NULL instead of dividing by zero.
const bmiExpr = `s.weight_kg::float8 / power(NULLIF(s.height_cm, 0)::float8 / 100.0, 2)`

// BMIDistribution groups by gender or department name, or returns a single
// overall row when groupBy is empty.
func (r *analyticsRepository) BMIDistribution(ctx context.Context, groupBy string) ([]model.BMIGroup, error) {
	var key string
	switch groupBy {
	case model.BMIGroupNone:
	case model.BMIGroupGender:
		key = "b.gender"
	case model.BMIGroupDepartment:
		key = "b.department"
	default:
		return nil, fmt.Errorf("unsupported bmi grouping %q", groupBy)
	}

	inner := r.sb.Select("s.gender AS gender", "d.name AS department", bmiExpr+" AS bmi").
		From("students s").
		Join("departments d ON d.id = s.department_id")

	q := r.sb.Select().FromSelect(inner, "b")
	if key != "" {
		q = q.Column(key).GroupBy(key).OrderBy(key + " ASC")
	}
	q = q.Column("COUNT(*)").
		Column("AVG(b.bmi)").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE b.bmi < ?)", model.BMINormalFrom)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE b.bmi >= ? AND b.bmi < ?)", model.BMINormalFrom, model.BMIOverweightFrom)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE b.bmi >= ? AND b.bmi < ?)", model.BMIOverweightFrom, model.BMIObeseFrom)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE b.bmi >= ?)", model.BMIObeseFrom))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bmi query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bmi distribution: %w", err)
	}
	defer rows.Close()

	results := []model.BMIGroup{}
	for rows.Next() {
		var g model.BMIGroup
		var label string
		dest := []any{&g.Total, &g.AvgBMI, &g.Buckets.Underweight, &g.Buckets.Normal, &g.Buckets.Overweight, &g.Buckets.Obese}
		if key != "" {
			dest = append([]any{&label}, dest...)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan bmi group: %w", err)
		}
		switch groupBy {
		case model.BMIGroupGender:
			g.Gender = &label
		case model.BMIGroupDepartment:
			g.Department = &label
		}
		results = append(results, g)
	}
	return results, rows.Err()
}
