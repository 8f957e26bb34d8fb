package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
)

type mockResultRepo struct {
	results map[string]models.Result
	stored  []models.Result
	deleted []string
}

func (m *mockResultRepo) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, int, error) {
	return nil, 0, nil
}

func (m *mockResultRepo) FindByID(ctx context.Context, id string) (*models.Result, error) {
	if r, ok := m.results[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockResultRepo) Upsert(ctx context.Context, result *models.Result) error {
	m.stored = append(m.stored, *result)
	return nil
}

func (m *mockResultRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockModuleLookup struct {
	modules map[string]models.Module
}

func (m *mockModuleLookup) FindModuleByID(ctx context.Context, id string) (*models.Module, error) {
	if mod, ok := m.modules[id]; ok {
		return &mod, nil
	}
	return nil, sql.ErrNoRows
}

func newResultService(repo *mockResultRepo, modules *mockModuleLookup, students *mockPerformanceStudents) *ResultService {
	return NewResultService(repo, modules, students, nil, nil, zap.NewNop())
}

func validUpsertRequest() dto.UpsertResultRequest {
	return dto.UpsertResultRequest{
		StudentID:    "stu-1",
		ModuleID:     "m-1",
		Grade:        "B+",
		CreditHours:  3,
		AcademicYear: "2026/2027",
		Semester:     1,
	}
}

func TestResultServiceUpsertDerivesGPA(t *testing.T) {
	repo := &mockResultRepo{}
	modules := &mockModuleLookup{modules: map[string]models.Module{"m-1": {ID: "m-1"}}}
	students := &mockPerformanceStudents{students: map[string]models.StudentDetail{
		"stu-1": studentWithCourse("stu-1", "c-1"),
	}}
	svc := newResultService(repo, modules, students)

	result, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.NoError(t, err)
	assert.InDelta(t, 3.3, result.GPA, 0.0001)
	require.Len(t, repo.stored, 1)
	assert.Equal(t, "B+", repo.stored[0].Grade)
}

func TestResultServiceUpsertUnknownStudent(t *testing.T) {
	repo := &mockResultRepo{}
	modules := &mockModuleLookup{modules: map[string]models.Module{"m-1": {ID: "m-1"}}}
	students := &mockPerformanceStudents{}
	svc := newResultService(repo, modules, students)

	_, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "student does not exist")
	assert.Empty(t, repo.stored)
}

func TestResultServiceUpsertUnknownModule(t *testing.T) {
	repo := &mockResultRepo{}
	modules := &mockModuleLookup{}
	students := &mockPerformanceStudents{students: map[string]models.StudentDetail{
		"stu-1": studentWithCourse("stu-1", "c-1"),
	}}
	svc := newResultService(repo, modules, students)

	_, err := svc.Upsert(context.Background(), validUpsertRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module does not exist")
}

func TestResultServiceUpsertRejectsBadGrade(t *testing.T) {
	repo := &mockResultRepo{}
	modules := &mockModuleLookup{modules: map[string]models.Module{"m-1": {ID: "m-1"}}}
	students := &mockPerformanceStudents{students: map[string]models.StudentDetail{
		"stu-1": studentWithCourse("stu-1", "c-1"),
	}}
	svc := newResultService(repo, modules, students)

	req := validUpsertRequest()
	req.Grade = "E"
	_, err := svc.Upsert(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, repo.stored)
}

func TestResultServiceDeleteQueuesRecompute(t *testing.T) {
	repo := &mockResultRepo{results: map[string]models.Result{
		"res-1": {ID: "res-1", StudentID: "stu-1"},
	}}
	svc := newResultService(repo, &mockModuleLookup{}, &mockPerformanceStudents{})

	err := svc.Delete(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"res-1"}, repo.deleted)
}

func TestResultServiceDeleteNotFound(t *testing.T) {
	repo := &mockResultRepo{}
	svc := newResultService(repo, &mockModuleLookup{}, &mockPerformanceStudents{})

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "result not found")
	assert.Empty(t, repo.deleted)
}
