package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/model"
)

// StudentRepository persists students together with their metrics row.
// Create and Update issue several statements and expect to run inside a
// transaction (see WithTx).
type StudentRepository interface {
	WithTx(q database.DBTX) StudentRepository
	List(ctx context.Context, limit, offset int) ([]model.Student, int, error)
	GetByID(ctx context.Context, id int) (*model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, id int) error
}

type studentRepository struct {
	db database.DBTX
}

func NewStudentRepository(db database.DBTX) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) WithTx(q database.DBTX) StudentRepository {
	return &studentRepository{db: q}
}

const studentSelect = `
	SELECT s.id, s.gender, s.height_cm, s.weight_kg, s.created_at,
	       d.id, d.name, d.created_at, h.id, h.name, h.created_at,
	       m.student_id IS NOT NULL,
	       COALESCE(m.certification_course, FALSE), COALESCE(m.mark_10th, 0),
	       COALESCE(m.mark_12th, 0), COALESCE(m.college_mark, 0),
	       COALESCE(m.daily_studying_time, ''), COALESCE(m.study_minutes, 0),
	       COALESCE(m.prefer_to_study_in, ''), COALESCE(m.salary_expectation, 0),
	       COALESCE(m.likes_degree, FALSE), COALESCE(m.willingness_percent, 0),
	       COALESCE(m.social_media_video, ''), COALESCE(m.social_minutes, 0),
	       COALESCE(m.travelling_time, ''), COALESCE(m.travel_minutes, 0),
	       COALESCE(m.stress_level, ''), COALESCE(m.financial_status, ''),
	       COALESCE(m.part_time_job, FALSE)
	FROM students s
	JOIN departments d ON d.id = s.department_id
	JOIN hobbies h ON h.id = s.hobby_id
	LEFT JOIN student_metrics m ON m.student_id = s.id`

func scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
	m := &model.StudentMetrics{}
	var hasMetrics bool
	err := row.Scan(
		&s.ID, &s.Gender, &s.HeightCM, &s.WeightKG, &s.CreatedAt,
		&s.Department.ID, &s.Department.Name, &s.Department.CreatedAt,
		&s.Hobby.ID, &s.Hobby.Name, &s.Hobby.CreatedAt,
		&hasMetrics,
		&m.CertificationCourse, &m.Mark10th,
		&m.Mark12th, &m.CollegeMark,
		&m.DailyStudyingTime, &m.StudyMinutes,
		&m.PreferToStudyIn, &m.SalaryExpectation,
		&m.LikesDegree, &m.WillingnessPercent,
		&m.SocialMediaVideo, &m.SocialMinutes,
		&m.TravellingTime, &m.TravelMinutes,
		&m.StressLevel, &m.FinancialStatus,
		&m.PartTimeJob,
	)
	if err != nil {
		return nil, err
	}
	if hasMetrics {
		s.Metrics = m
	}
	s.FillBMI()
	return s, nil
}

func (r *studentRepository) List(ctx context.Context, limit, offset int) ([]model.Student, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	rows, err := r.db.Query(ctx, studentSelect+` ORDER BY s.id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, *s)
	}
	return students, total, rows.Err()
}

func (r *studentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s, err := scanStudent(r.db.QueryRow(ctx, studentSelect+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

func (r *studentRepository) Create(ctx context.Context, s *model.Student) error {
	query := `
		INSERT INTO students (gender, department_id, hobby_id, height_cm, weight_kg)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		string(s.Gender), s.Department.ID, s.Hobby.ID, s.HeightCM, s.WeightKG,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return classifyStudentWrite(err)
	}
	if s.Metrics == nil {
		return nil
	}
	return r.upsertMetrics(ctx, s.ID, s.Metrics)
}

func (r *studentRepository) Update(ctx context.Context, s *model.Student) error {
	query := `
		UPDATE students
		SET gender = $1, department_id = $2, hobby_id = $3, height_cm = $4, weight_kg = $5
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query,
		string(s.Gender), s.Department.ID, s.Hobby.ID, s.HeightCM, s.WeightKG, s.ID,
	)
	if err != nil {
		return classifyStudentWrite(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if s.Metrics == nil {
		return nil
	}
	return r.upsertMetrics(ctx, s.ID, s.Metrics)
}

func (r *studentRepository) upsertMetrics(ctx context.Context, studentID int, m *model.StudentMetrics) error {
	query := `
		INSERT INTO student_metrics (
			student_id, certification_course, mark_10th, mark_12th, college_mark,
			daily_studying_time, study_minutes, prefer_to_study_in, salary_expectation,
			likes_degree, willingness_percent, social_media_video, social_minutes,
			travelling_time, travel_minutes, stress_level, financial_status, part_time_job
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (student_id) DO UPDATE SET
			certification_course = EXCLUDED.certification_course,
			mark_10th = EXCLUDED.mark_10th,
			mark_12th = EXCLUDED.mark_12th,
			college_mark = EXCLUDED.college_mark,
			daily_studying_time = EXCLUDED.daily_studying_time,
			study_minutes = EXCLUDED.study_minutes,
			prefer_to_study_in = EXCLUDED.prefer_to_study_in,
			salary_expectation = EXCLUDED.salary_expectation,
			likes_degree = EXCLUDED.likes_degree,
			willingness_percent = EXCLUDED.willingness_percent,
			social_media_video = EXCLUDED.social_media_video,
			social_minutes = EXCLUDED.social_minutes,
			travelling_time = EXCLUDED.travelling_time,
			travel_minutes = EXCLUDED.travel_minutes,
			stress_level = EXCLUDED.stress_level,
			financial_status = EXCLUDED.financial_status,
			part_time_job = EXCLUDED.part_time_job
	`
	_, err := r.db.Exec(ctx, query, metricsArgs(studentID, m)...)
	if err != nil {
		return fmt.Errorf("upsert student metrics: %w", err)
	}
	return nil
}

// metricsArgs orders the metrics columns as in metricsColumns.
func metricsArgs(studentID int, m *model.StudentMetrics) []any {
	return []any{
		studentID, m.CertificationCourse, m.Mark10th, m.Mark12th, m.CollegeMark,
		string(m.DailyStudyingTime), m.StudyMinutes, string(m.PreferToStudyIn), m.SalaryExpectation,
		m.LikesDegree, m.WillingnessPercent, string(m.SocialMediaVideo), m.SocialMinutes,
		string(m.TravellingTime), m.TravelMinutes, string(m.StressLevel), string(m.FinancialStatus), m.PartTimeJob,
	}
}

var metricsColumns = []string{
	"student_id", "certification_course", "mark_10th", "mark_12th", "college_mark",
	"daily_studying_time", "study_minutes", "prefer_to_study_in", "salary_expectation",
	"likes_degree", "willingness_percent", "social_media_video", "social_minutes",
	"travelling_time", "travel_minutes", "stress_level", "financial_status", "part_time_job",
}

func classifyStudentWrite(err error) error {
	if database.HasCode(err, database.CodeForeignKeyViolation) {
		switch database.ConstraintName(err) {
		case fkStudentDepartment:
			return &InvalidRefError{Field: "department"}
		case fkStudentHobby:
			return &InvalidRefError{Field: "hobby"}
		}
		return ErrInvalidRef
	}
	return fmt.Errorf("write student: %w", err)
}

func (r *studentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
