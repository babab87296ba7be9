package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/repository"
)

// DefaultBatchSize is the COPY chunk size when Options.BatchSize is unset.
const DefaultBatchSize = 500

// ErrNoValidRows is returned when a file yields nothing to insert.
var ErrNoValidRows = errors.New("no valid rows to load")

// Options tune a single load.
type Options struct {
	// Truncate clears metrics, students, departments and hobbies first.
	Truncate  bool
	BatchSize int
}

// Report summarizes a finished load.
type Report struct {
	File            string    `json:"file"`
	Truncated       bool      `json:"truncated"`
	RowsRead        int       `json:"rows_read"`
	StudentsCreated int       `json:"students_created"`
	MetricsCreated  int       `json:"metrics_created"`
	RowsSkipped     int       `json:"rows_skipped"`
	Errors          []string  `json:"errors"`
	FinishedAt      time.Time `json:"finished_at"`
}

// Summary renders the report for a terminal, listing at most maxErrors row errors.
func (r *Report) Summary(maxErrors int) string {
	var b strings.Builder
	b.WriteString("Bulk CSV load finished.\n")
	if r.Truncated {
		b.WriteString("Cleared existing data.\n")
	}
	fmt.Fprintf(&b, "File: %s\n", r.File)
	fmt.Fprintf(&b, "Rows read: %d\n", r.RowsRead)
	fmt.Fprintf(&b, "Students created: %d\n", r.StudentsCreated)
	fmt.Fprintf(&b, "Metrics created: %d\n", r.MetricsCreated)
	fmt.Fprintf(&b, "Rows skipped (parse errors): %d\n", r.RowsSkipped)

	if len(r.Errors) == 0 {
		return b.String()
	}
	shown := min(maxErrors, len(r.Errors))
	fmt.Fprintf(&b, "First %d parse errors:\n", shown)
	for _, msg := range r.Errors[:shown] {
		fmt.Fprintf(&b, "  - %s\n", msg)
	}
	if rest := len(r.Errors) - shown; rest > 0 {
		fmt.Fprintf(&b, "  ... and %d more.\n", rest)
	}
	return b.String()
}

// Loader bulk-loads survey CSV files in a single transaction.
type Loader struct {
	tx   database.TxRunner
	repo repository.IngestRepository
	log  zerolog.Logger
}

func NewLoader(tx database.TxRunner, repo repository.IngestRepository, log zerolog.Logger) *Loader {
	return &Loader{tx: tx, repo: repo, log: log.With().Str("component", "ingest").Logger()}
}

// Load parses path and writes every valid row. File-level problems abort
// before anything is written, including the truncate.
func (l *Loader) Load(ctx context.Context, path string, opts Options) (*Report, error) {
	parsed, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.LoadParsed(ctx, path, parsed, opts)
}

// LoadParsed writes rows that were already parsed from file.
func (l *Loader) LoadParsed(ctx context.Context, file string, parsed *Parsed, opts Options) (*Report, error) {
	rowErrors := make([]string, len(parsed.Errors))
	for i, e := range parsed.Errors {
		rowErrors[i] = e.Error()
	}

	if len(parsed.Rows) == 0 {
		if len(rowErrors) == 0 {
			return nil, fmt.Errorf("%w: %s has no data rows", ErrNoValidRows, file)
		}
		first := rowErrors[:min(5, len(rowErrors))]
		return nil, fmt.Errorf("%w: all %d rows failed to parse, first errors: %s",
			ErrNoValidRows, len(rowErrors), strings.Join(first, "; "))
	}

	batch := opts.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	deptNames := distinctNames(parsed.Rows, func(r Row) string { return r.DepartmentName })
	hobbyNames := distinctNames(parsed.Rows, func(r Row) string { return r.HobbyName })

	report := &Report{
		File:        file,
		Truncated:   opts.Truncate,
		RowsRead:    parsed.RowsRead,
		RowsSkipped: len(parsed.Errors),
		Errors:      rowErrors,
	}

	err := l.tx.WithTx(ctx, func(ctx context.Context, q database.DBTX) error {
		repo := l.repo.WithTx(q)

		if opts.Truncate {
			if err := repo.Truncate(ctx); err != nil {
				return err
			}
			l.log.Warn().Msg("Cleared existing survey data")
		}

		deptIDs, err := repo.EnsureLookups(ctx, model.KindDepartment, deptNames)
		if err != nil {
			return err
		}
		hobbyIDs, err := repo.EnsureLookups(ctx, model.KindHobby, hobbyNames)
		if err != nil {
			return err
		}

		students := make([]model.Student, len(parsed.Rows))
		for i, row := range parsed.Rows {
			s := row.Student
			var ok bool
			if s.Department.ID, ok = deptIDs[strings.ToLower(row.DepartmentName)]; !ok {
				return fmt.Errorf("line %d: department %q was not stored", row.Line, row.DepartmentName)
			}
			if s.Hobby.ID, ok = hobbyIDs[strings.ToLower(row.HobbyName)]; !ok {
				return fmt.Errorf("line %d: hobby %q was not stored", row.Line, row.HobbyName)
			}
			students[i] = s
		}

		report.StudentsCreated, report.MetricsCreated, err = repo.InsertStudents(ctx, students, batch)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", file, err)
	}

	report.FinishedAt = time.Now().UTC()
	l.log.Info().
		Str("file", file).
		Int("rows_read", report.RowsRead).
		Int("students_created", report.StudentsCreated).
		Int("rows_skipped", report.RowsSkipped).
		Msg("Bulk load finished")
	return report, nil
}

// distinctNames keeps the first spelling of every case-insensitive name.
func distinctNames(rows []Row, pick func(Row) string) []string {
	seen := make(map[string]struct{}, len(rows))
	var names []string
	for _, r := range rows {
		n := pick(r)
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, n)
	}
	return names
}
