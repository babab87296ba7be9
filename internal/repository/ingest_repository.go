package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/model"
)

// IngestRepository backs the CSV bulk loader. All methods are meant to run
// on the same transaction.
type IngestRepository interface {
	WithTx(q database.DBTX) IngestRepository
	Truncate(ctx context.Context) error
	// EnsureLookups inserts missing names and returns ids keyed by lower(name).
	EnsureLookups(ctx context.Context, kind model.LookupKind, names []string) (map[string]int, error)
	// InsertStudents assigns ids to students and copies them and their
	// metrics in chunks of batchSize rows.
	InsertStudents(ctx context.Context, students []model.Student, batchSize int) (created, metrics int, err error)
}

type ingestRepository struct {
	db database.DBTX
}

func NewIngestRepository(db database.DBTX) IngestRepository {
	return &ingestRepository{db: db}
}

func (r *ingestRepository) WithTx(q database.DBTX) IngestRepository {
	return &ingestRepository{db: q}
}

// Truncate deletes in dependency order.
func (r *ingestRepository) Truncate(ctx context.Context) error {
	for _, table := range []string{"student_metrics", "students", "departments", "hobbies"} {
		if _, err := r.db.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (r *ingestRepository) EnsureLookups(ctx context.Context, kind model.LookupKind, names []string) (map[string]int, error) {
	ids := make(map[string]int, len(names))
	if len(names) == 0 {
		return ids, nil
	}
	table := kind.Table()

	insert := fmt.Sprintf(`INSERT INTO %s (name) SELECT unnest($1::text[]) ON CONFLICT DO NOTHING`, table)
	if _, err := r.db.Exec(ctx, insert, names); err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = strings.ToLower(n)
	}
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT id, lower(name) FROM %s WHERE lower(name) = ANY($1)`, table), keys)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		ids[key] = id
	}
	return ids, rows.Err()
}

func (r *ingestRepository) InsertStudents(ctx context.Context, students []model.Student, batchSize int) (int, int, error) {
	if len(students) == 0 {
		return 0, 0, nil
	}
	if batchSize <= 0 {
		batchSize = len(students)
	}

	ids, err := r.reserveIDs(ctx, len(students))
	if err != nil {
		return 0, 0, err
	}
	for i := range students {
		students[i].ID = ids[i]
	}

	var created, metrics int
	for start := 0; start < len(students); start += batchSize {
		end := min(start+batchSize, len(students))
		chunk := students[start:end]

		studentRows := make([][]any, len(chunk))
		var metricRows [][]any
		for i, s := range chunk {
			studentRows[i] = []any{s.ID, string(s.Gender), s.Department.ID, s.Hobby.ID, s.HeightCM, s.WeightKG}
			if s.Metrics != nil {
				metricRows = append(metricRows, metricsArgs(s.ID, s.Metrics))
			}
		}

		n, err := r.db.CopyFrom(ctx, pgx.Identifier{"students"},
			[]string{"id", "gender", "department_id", "hobby_id", "height_cm", "weight_kg"},
			pgx.CopyFromRows(studentRows))
		if err != nil {
			return 0, 0, fmt.Errorf("copy students: %w", err)
		}
		created += int(n)

		n, err = r.db.CopyFrom(ctx, pgx.Identifier{"student_metrics"}, metricsColumns, pgx.CopyFromRows(metricRows))
		if err != nil {
			return 0, 0, fmt.Errorf("copy student metrics: %w", err)
		}
		metrics += int(n)
	}
	return created, metrics, nil
}

// reserveIDs draws n values from the students id sequence so COPY can
// write explicit ids that metrics rows reference.
func (r *ingestRepository) reserveIDs(ctx context.Context, n int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT nextval(pg_get_serial_sequence('students', 'id')) FROM generate_series(1, $1)`, n)
	if err != nil {
		return nil, fmt.Errorf("reserve student ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("reserve student ids: %w", err)
	}
	if len(ids) != n {
		return nil, fmt.Errorf("reserve student ids: got %d, want %d", len(ids), n)
	}
	return ids, nil
}
