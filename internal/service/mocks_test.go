package service

import (
	"context"

	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/repository"
	"github.com/stretchr/testify/mock"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTx(ctx context.Context, fn database.TxFn) error {
	f.calls++
	return fn(ctx, nil)
}

type mockLookupRepo struct {
	mock.Mock
	kind model.LookupKind
}

func (m *mockLookupRepo) WithTx(database.DBTX) repository.LookupRepository { return m }
func (m *mockLookupRepo) Kind() model.LookupKind { return m.kind }

func (m *mockLookupRepo) List(ctx context.Context, limit, offset int) ([]model.Lookup, int, error) {
	args := m.Called(ctx, limit, offset)
	items, _ := args.Get(0).([]model.Lookup)
	return items, args.Int(1), args.Error(2)
}

func (m *mockLookupRepo) GetByID(ctx context.Context, id int) (*model.Lookup, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*model.Lookup)
	return l, args.Error(1)
}

func (m *mockLookupRepo) Create(ctx context.Context, name string) (*model.Lookup, error) {
	args := m.Called(ctx, name)
	l, _ := args.Get(0).(*model.Lookup)
	return l, args.Error(1)
}

func (m *mockLookupRepo) Rename(ctx context.Context, id int, name string) (*model.Lookup, error) {
	args := m.Called(ctx, id, name)
	l, _ := args.Get(0).(*model.Lookup)
	return l, args.Error(1)
}

func (m *mockLookupRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLookupRepo) GetOrCreate(ctx context.Context, name string) (*model.Lookup, error) {
	args := m.Called(ctx, name)
	l, _ := args.Get(0).(*model.Lookup)
	return l, args.Error(1)
}

type mockStudentRepo struct {
	mock.Mock
}

func (m *mockStudentRepo) WithTx(database.DBTX) repository.StudentRepository { return m }

func (m *mockStudentRepo) List(ctx context.Context, limit, offset int) ([]model.Student, int, error) {
	args := m.Called(ctx, limit, offset)
	items, _ := args.Get(0).([]model.Student)
	return items, args.Int(1), args.Error(2)
}

func (m *mockStudentRepo) GetByID(ctx context.Context, id int) (*model.Student, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Student)
	return s, args.Error(1)
}

func (m *mockStudentRepo) Create(ctx context.Context, s *model.Student) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockStudentRepo) Update(ctx context.Context, s *model.Student) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockAnalyticsRepo struct {
	mock.Mock
}

func (m *mockAnalyticsRepo) Search(ctx context.Context, f model.SearchFilter) ([]model.SearchRow, error) {
	args := m.Called(ctx, f)
	rows, _ := args.Get(0).([]model.SearchRow)
	return rows, args.Error(1)
}

func (m *mockAnalyticsRepo) DepartmentSummaries(ctx context.Context) ([]model.DepartmentSummary, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]model.DepartmentSummary)
	return rows, args.Error(1)
}

func (m *mockAnalyticsRepo) PartTimeImpact(ctx context.Context) (*model.PartTimeImpact, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).(*model.PartTimeImpact)
	return p, args.Error(1)
}

func (m *mockAnalyticsRepo) StudyTimePerformance(ctx context.Context) ([]model.StudyTimePerformance, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]model.StudyTimePerformance)
	return rows, args.Error(1)
}

func (m *mockAnalyticsRepo) Risk(ctx context.Context, c model.RiskCriteria) ([]model.RiskRow, error) {
	args := m.Called(ctx, c)
	rows, _ := args.Get(0).([]model.RiskRow)
	return rows, args.Error(1)
}

func (m *mockAnalyticsRepo) BMIDistribution(ctx context.Context, groupBy string) ([]model.BMIGroup, error) {
	args := m.Called(ctx, groupBy)
	rows, _ := args.Get(0).([]model.BMIGroup)
	return rows, args.Error(1)
}

type mockAdminStore struct {
	mock.Mock
}

func (m *mockAdminStore) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	args := m.Called(ctx, username)
	a, _ := args.Get(0).(*model.Admin)
	return a, args.Error(1)
}

func (m *mockAdminStore) CreateIfMissing(ctx context.Context, a *model.Admin) (bool, error) {
	args := m.Called(ctx, a)
	return args.Bool(0), args.Error(1)
}

func ptr[T any](v T) *T { return &v }
