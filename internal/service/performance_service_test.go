package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/models"
)

type mockPerformanceStudents struct {
	students map[string]models.StudentDetail
	order    []string
	written  map[string]models.Student
}

func (m *mockPerformanceStudents) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPerformanceStudents) UpdatePerformance(ctx context.Context, id string, cgpa float64, completed, total int, standing models.AcademicStanding) error {
	if m.written == nil {
		m.written = make(map[string]models.Student)
	}
	m.written[id] = models.Student{
		ID:                   id,
		CGPA:                 cgpa,
		CompletedCreditHours: completed,
		TotalCreditHours:     total,
		AcademicStanding:     standing,
	}
	return nil
}

func (m *mockPerformanceStudents) ListIDs(ctx context.Context) ([]string, error) {
	return m.order, nil
}

type mockPerformanceResults struct {
	byStudent map[string][]models.Result
}

func (m *mockPerformanceResults) ListByStudent(ctx context.Context, studentID string) ([]models.Result, error) {
	return m.byStudent[studentID], nil
}

type mockPerformanceCourses struct {
	courses map[string]models.Course
	modules map[string][]models.Module
}

func (m *mockPerformanceCourses) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPerformanceCourses) ListModulesByCourse(ctx context.Context, courseID string) ([]models.Module, error) {
	return m.modules[courseID], nil
}

func newPerformanceService(students *mockPerformanceStudents, results *mockPerformanceResults, courses *mockPerformanceCourses) *PerformanceService {
	return NewPerformanceService(StudentPerformanceDeps{
		Students: students,
		Results:  results,
		Courses:  courses,
	}, nil, zap.NewNop())
}

func studentWithCourse(id, courseID string) models.StudentDetail {
	return models.StudentDetail{
		Student:  models.Student{ID: id, IntakeCourseID: "ic-1"},
		CourseID: courseID,
	}
}

func TestPerformanceServiceNoResultsYieldsZero(t *testing.T) {
	students := &mockPerformanceStudents{students: map[string]models.StudentDetail{
		"stu-1": studentWithCourse("stu-1", "c-1"),
	}}
	results := &mockPerformanceResults{}
	courses := &mockPerformanceCourses{modules: map[string][]models.Module{
		"c-1": {{ID: "m-1", CreditHours: 3}},
	}}
	svc := newPerformanceService(students, results, courses)

	updated, err := svc.RecomputeStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Zero(t, updated.CGPA)
	assert.Zero(t, updated.CompletedCreditHours)
	assert.Equal(t, 3, updated.TotalCreditHours)
}

func TestPerformanceServiceWeightedMeanIncludesFailures(t *testing.T) {
	students := &mockPerformanceStudents{students: map[string]models.StudentDetail{
		"stu-1": studentWithCourse("stu-1", "c-1"),
	}}
	results := &mockPerformanceResults{byStudent: map[string][]models.Result{
		"stu-1": {
			{Grade: "A", CreditHours: 3},
			{Grade: "F", CreditHours: 3},
		},
	}}
	courses := &mockPerformanceCourses{modules: map[string][]models.Module{
		"c-1": {{CreditHours: 3}, {CreditHours: 3}},
	}}
	svc := newPerformanceService(students, results, courses)

	updated, err := svc.RecomputeStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	// (4.0*3 + 0*3) / 6 = 2.0; only the A earns credit hours.
	assert.InDelta(t, 2.0, updated.CGPA, 0.001)
	assert.Equal(t, 3, updated.CompletedCreditHours)
	assert.Equal(t, models.StandingGood, updated.AcademicStanding)
}

func TestPerformanceServicePassingGradeEarnsHours(t *testing.T) {
	students := &mockPerformanceStudents{students: map[string]models.StudentDetail{
		"stu-1": studentWithCourse("stu-1", "c-1"),
	}}
	results := &mockPerformanceResults{byStudent: map[string][]models.Result{
		"stu-1": {{Grade: "B+", CreditHours: 4}},
	}}
	courses := &mockPerformanceCourses{modules: map[string][]models.Module{
		"c-1": {{CreditHours: 4}},
	}}
	svc := newPerformanceService(students, results, courses)

	updated, err := svc.RecomputeStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.InDelta(t, 3.3, updated.CGPA, 0.001)
	assert.Equal(t, 4, updated.CompletedCreditHours)
}

func TestPerformanceServiceRoundsHalfAwayFromZero(t *testing.T) {
	// Eight one-hour grades summing to 17 points give an exact mean of
	// 2.125, which must round up to 2.13, not to the even 2.12.
	grades := []string{"A", "A", "B", "C", "C", "D", "D", "F"}
	var res []models.Result
	var mods []models.Module
	for _, g := range grades {
		res = append(res, models.Result{Grade: g, CreditHours: 1})
		mods = append(mods, models.Module{CreditHours: 1})
	}
	students := &mockPerformanceStudents{students: map[string]models.StudentDetail{
		"stu-1": studentWithCourse("stu-1", "c-1"),
	}}
	results := &mockPerformanceResults{byStudent: map[string][]models.Result{"stu-1": res}}
	courses := &mockPerformanceCourses{modules: map[string][]models.Module{"c-1": mods}}
	svc := newPerformanceService(students, results, courses)

	updated, err := svc.RecomputeStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 2.13, updated.CGPA)
}

func TestPerformanceServiceStudentNotFound(t *testing.T) {
	svc := newPerformanceService(&mockPerformanceStudents{}, &mockPerformanceResults{}, &mockPerformanceCourses{})

	_, err := svc.RecomputeStudent(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "student not found")
}

func TestPerformanceServiceMissingCourseReference(t *testing.T) {
	students := &mockPerformanceStudents{students: map[string]models.StudentDetail{
		"stu-1": studentWithCourse("stu-1", ""),
	}}
	svc := newPerformanceService(students, &mockPerformanceResults{}, &mockPerformanceCourses{})

	_, err := svc.RecomputeStudent(context.Background(), "stu-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no enrolled course")
}

func TestPerformanceServiceRecomputeAllTally(t *testing.T) {
	students := &mockPerformanceStudents{
		students: map[string]models.StudentDetail{
			"stu-1": studentWithCourse("stu-1", "c-1"),
			"stu-2": studentWithCourse("stu-2", ""),
		},
		order: []string{"stu-1", "stu-2"},
	}
	results := &mockPerformanceResults{byStudent: map[string][]models.Result{
		"stu-1": {{Grade: "A", CreditHours: 3}},
	}}
	courses := &mockPerformanceCourses{modules: map[string][]models.Module{
		"c-1": {{CreditHours: 3}},
	}}
	svc := newPerformanceService(students, results, courses)

	resp, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, 1, resp.ErrorCount)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "stu-2", resp.Errors[0].StudentID)
}

func TestPerformanceServiceDeanListStanding(t *testing.T) {
	students := &mockPerformanceStudents{students: map[string]models.StudentDetail{
		"stu-1": studentWithCourse("stu-1", "c-1"),
	}}
	results := &mockPerformanceResults{byStudent: map[string][]models.Result{
		"stu-1": {{Grade: "A", CreditHours: 3}, {Grade: "A-", CreditHours: 3}},
	}}
	courses := &mockPerformanceCourses{modules: map[string][]models.Module{
		"c-1": {{CreditHours: 3}, {CreditHours: 3}},
	}}
	svc := newPerformanceService(students, results, courses)

	updated, err := svc.RecomputeStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.InDelta(t, 3.85, updated.CGPA, 0.001)
	assert.Equal(t, models.StandingDeanList, updated.AcademicStanding)
}
