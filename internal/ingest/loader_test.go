package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTx(ctx context.Context, fn database.TxFn) error {
	f.calls++
	return fn(ctx, nil)
}

type mockIngestRepo struct {
	mock.Mock
}

func (m *mockIngestRepo) WithTx(database.DBTX) repository.IngestRepository { return m }

func (m *mockIngestRepo) Truncate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockIngestRepo) EnsureLookups(ctx context.Context, kind model.LookupKind, names []string) (map[string]int, error) {
	args := m.Called(ctx, kind, names)
	ids, _ := args.Get(0).(map[string]int)
	return ids, args.Error(1)
}

func (m *mockIngestRepo) InsertStudents(ctx context.Context, students []model.Student, batchSize int) (int, int, error) {
	args := m.Called(ctx, students, batchSize)
	return args.Int(0), args.Int(1), args.Error(2)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoaderLoad(t *testing.T) {
	second := strings.Replace(validRow, ",BCA,", ",bca,", 1)
	second = strings.Replace(second, ",Cinema,", ",Sports,", 1)
	broken := strings.Replace(validRow, ",Morning,", ",Noon,", 1)
	path := writeCSV(t, csvOf(surveyHeader, validRow, second, broken))

	repo := &mockIngestRepo{}
	repo.On("Truncate", mock.Anything).Return(nil).Once()
	repo.On("EnsureLookups", mock.Anything, model.KindDepartment, []string{"BCA"}).
		Return(map[string]int{"bca": 7}, nil)
	repo.On("EnsureLookups", mock.Anything, model.KindHobby, []string{"Cinema", "Sports"}).
		Return(map[string]int{"cinema": 1, "sports": 2}, nil)
	repo.On("InsertStudents", mock.Anything, mock.MatchedBy(func(s []model.Student) bool {
		return len(s) == 2 &&
			s[0].Department.ID == 7 && s[1].Department.ID == 7 &&
			s[0].Hobby.ID == 1 && s[1].Hobby.ID == 2
	}), 50).Return(2, 2, nil)

	tx := &fakeTx{}
	loader := NewLoader(tx, repo, zerolog.Nop())
	report, err := loader.Load(context.Background(), path, Options{Truncate: true, BatchSize: 50})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 3, report.RowsRead)
	assert.Equal(t, 2, report.StudentsCreated)
	assert.Equal(t, 2, report.MetricsCreated)
	assert.Equal(t, 1, report.RowsSkipped)
	require.Len(t, report.Errors, 1)
	assert.True(t, strings.HasPrefix(report.Errors[0], "Line 4: "))
	repo.AssertExpectations(t)
}

func TestLoaderDefaultsBatchSize(t *testing.T) {
	path := writeCSV(t, csvOf(surveyHeader, validRow))

	repo := &mockIngestRepo{}
	repo.On("EnsureLookups", mock.Anything, model.KindDepartment, mock.Anything).Return(map[string]int{"bca": 1}, nil)
	repo.On("EnsureLookups", mock.Anything, model.KindHobby, mock.Anything).Return(map[string]int{"cinema": 1}, nil)
	repo.On("InsertStudents", mock.Anything, mock.Anything, DefaultBatchSize).Return(1, 1, nil)

	_, err := NewLoader(&fakeTx{}, repo, zerolog.Nop()).Load(context.Background(), path, Options{})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Truncate", mock.Anything)
	repo.AssertExpectations(t)
}

func TestLoaderFatalErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"empty file", "", ErrEmptyFile},
		{"header only", csvOf(surveyHeader), ErrNoValidRows},
		{"all rows invalid", csvOf(surveyHeader, strings.Replace(validRow, "Male", "Robot", 1)), ErrNoValidRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &fakeTx{}
			repo := &mockIngestRepo{}
			_, err := NewLoader(tx, repo, zerolog.Nop()).
				Load(context.Background(), writeCSV(t, tt.content), Options{Truncate: true})

			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, tx.calls)
			repo.AssertNotCalled(t, "Truncate", mock.Anything)
		})
	}
}

func TestLoaderMissingColumns(t *testing.T) {
	path := writeCSV(t, csvOf("Gender,Department"))
	_, err := NewLoader(&fakeTx{}, &mockIngestRepo{}, zerolog.Nop()).Load(context.Background(), path, Options{})

	var mce *MissingColumnsError
	assert.ErrorAs(t, err, &mce)
}

func TestLoaderPropagatesStoreError(t *testing.T) {
	path := writeCSV(t, csvOf(surveyHeader, validRow))
	boom := errors.New("copy failed")

	repo := &mockIngestRepo{}
	repo.On("EnsureLookups", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]int{"bca": 1, "cinema": 1}, nil)
	repo.On("InsertStudents", mock.Anything, mock.Anything, mock.Anything).Return(0, 0, boom)

	report, err := NewLoader(&fakeTx{}, repo, zerolog.Nop()).Load(context.Background(), path, Options{})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, boom)
}

func TestReportSummary(t *testing.T) {
	r := &Report{File: "survey.csv", RowsRead: 13, StudentsCreated: 1, MetricsCreated: 1, RowsSkipped: 12}
	for i := 0; i < 12; i++ {
		r.Errors = append(r.Errors, RowError{Line: i + 2, Err: errors.New("bad")}.Error())
	}

	out := r.Summary(10)
	assert.Contains(t, out, "File: survey.csv")
	assert.Contains(t, out, "Rows skipped (parse errors): 12")
	assert.Contains(t, out, "  - Line 2: bad")
	assert.Contains(t, out, "  - Line 11: bad")
	assert.NotContains(t, out, "Line 12: bad")
	assert.Contains(t, out, "... and 2 more.")
}

func TestReportStoreWithoutRedis(t *testing.T) {
	store := NewReportStore(nil)
	require.NoError(t, store.Save(context.Background(), &Report{File: "x.csv"}))

	last, err := store.Last(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}
